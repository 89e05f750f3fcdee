package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hearthside/mailroom/internal/utils"
)

// Update is a family update sent out to recipients. Replies arrive on
// update-{id}@{domain} and thread back to this row, so the id must stay
// address-safe (uuid, not a prefixed nanoid).
type Update struct {
	ID        string `gorm:"column:id;type:varchar(50);primaryKey"`
	ProfileID string `gorm:"column:profile_id;type:varchar(50);index;not null"`
	ChildID   string `gorm:"column:child_id;type:varchar(50);index"`
	Subject   string `gorm:"column:subject;type:varchar(1000)"`
	Content   string `gorm:"column:content;type:text"`

	SentAt    *time.Time `gorm:"column:sent_at;type:timestamp;index"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time  `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Update) TableName() string {
	return "updates"
}

func (u *Update) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = utils.Now()
	return nil
}
