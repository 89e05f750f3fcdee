package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/hearthside/mailroom/internal/utils"
)

type Child struct {
	ID        string     `gorm:"column:id;type:varchar(50);primaryKey"`
	ProfileID string     `gorm:"column:profile_id;type:varchar(50);index;not null"`
	Name      string     `gorm:"column:name;type:varchar(255);not null"`
	BirthDate *time.Time `gorm:"column:birth_date;type:date"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Child) TableName() string {
	return "children"
}

func (c *Child) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.GenerateNanoIDWithPrefix("chld", 16)
	}
	c.CreatedAt = utils.Now()
	return nil
}
