package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/utils"
)

// Response is a recipient's threaded reply to an update.
type Response struct {
	ID          string `gorm:"column:id;type:varchar(50);primaryKey"`
	UpdateID    string `gorm:"column:update_id;type:varchar(50);index;not null"`
	RecipientID string `gorm:"column:recipient_id;type:varchar(50);index;not null"`

	Channel   enum.Channel   `gorm:"column:channel;type:varchar(20);not null"`
	Content   string         `gorm:"column:content;type:text"`
	MediaURLs pq.StringArray `gorm:"column:media_urls;type:text[]"`

	// ExternalID is the provider message-id (or synthesized fallback) and
	// carries the idempotency guarantee.
	ExternalID string    `gorm:"column:external_id;type:varchar(255);uniqueIndex;not null"`
	ReceivedAt time.Time `gorm:"column:received_at;type:timestamp;index"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Response) TableName() string {
	return "responses"
}

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("resp", 16)
	}
	r.CreatedAt = utils.Now()
	return nil
}
