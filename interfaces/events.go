package interfaces

import (
	"context"

	"github.com/hearthside/mailroom/dto"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, event dto.Event) error
	Close() error
}
