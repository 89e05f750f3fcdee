package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/utils"
)

// Memory is a moment recorded for a child, created here from an inbound
// email and left in draft for the owner to review in the dashboard.
type Memory struct {
	ID        string `gorm:"column:id;type:varchar(50);primaryKey"`
	ProfileID string `gorm:"column:profile_id;type:varchar(50);index;not null"`
	ChildID   string `gorm:"column:child_id;type:varchar(50);index"`

	Subject       string             `gorm:"column:subject;type:varchar(1000)"`
	Content       string             `gorm:"column:content;type:text"`
	RichContent   string             `gorm:"column:rich_content;type:text"`
	ContentFormat enum.ContentFormat `gorm:"column:content_format;type:varchar(20);not null"`
	MediaURLs     pq.StringArray     `gorm:"column:media_urls;type:text[]"`
	Status        enum.MemoryStatus  `gorm:"column:status;type:varchar(20);index;not null"`

	// SourceMessageID dedupes at-least-once webhook deliveries.
	SourceMessageID string `gorm:"column:source_message_id;type:varchar(255);uniqueIndex"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Memory) TableName() string {
	return "memories"
}

func (m *Memory) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.GenerateNanoIDWithPrefix("mem", 16)
	}
	m.CreatedAt = utils.Now()
	return nil
}
