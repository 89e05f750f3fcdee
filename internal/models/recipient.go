package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/hearthside/mailroom/internal/utils"
)

type Recipient struct {
	ID        string `gorm:"column:id;type:varchar(50);primaryKey"`
	ProfileID string `gorm:"column:profile_id;type:varchar(50);index;not null"`
	Email     string `gorm:"column:email;type:varchar(255);index;not null"`
	Name      string `gorm:"column:name;type:varchar(255)"`
	IsActive  bool   `gorm:"column:is_active;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Recipient) TableName() string {
	return "recipients"
}

func (r *Recipient) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("rcpt", 16)
	}
	r.CreatedAt = utils.Now()
	return nil
}
