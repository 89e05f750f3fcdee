package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/hearthside/mailroom/internal/utils"
)

// Profile is the account that owns children, updates and memories.
// Rows are created by the onboarding flow; mailroom only reads them.
type Profile struct {
	ID    string `gorm:"column:id;type:varchar(50);primaryKey"`
	Email string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Name  string `gorm:"column:name;type:varchar(255)"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.GenerateNanoIDWithPrefix("prof", 16)
	}
	p.CreatedAt = utils.Now()
	return nil
}
