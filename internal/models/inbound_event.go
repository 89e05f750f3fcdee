package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/utils"
)

// InboundEvent is the ledger of processed webhook deliveries, one row per
// provider message-id. Used for replay detection and pruned by cron.
type InboundEvent struct {
	ID        string `gorm:"column:id;type:varchar(50);primaryKey"`
	MessageID string `gorm:"column:message_id;type:varchar(255);uniqueIndex;not null"`

	FromAddress string             `gorm:"column:from_address;type:varchar(255);index"`
	ToAddress   string             `gorm:"column:to_address;type:varchar(255)"`
	RouteKind   enum.RouteKind     `gorm:"column:route_kind;type:varchar(20);index"`
	Outcome     enum.IngestOutcome `gorm:"column:outcome;type:varchar(20);index"`
	EntityID    string             `gorm:"column:entity_id;type:varchar(50)"`
	Detail      string             `gorm:"column:detail;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;index;default:current_timestamp"`
}

func (InboundEvent) TableName() string {
	return "inbound_events"
}

func (e *InboundEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("inb", 16)
	}
	e.CreatedAt = utils.Now()
	return nil
}
