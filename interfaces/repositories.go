package interfaces

import (
	"context"

	"github.com/hearthside/mailroom/internal/models"
)

type ProfileRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type ChildRepository interface {
	GetByProfileAndName(ctx context.Context, profileID, name string) (*models.Child, error)
	GetYoungestByProfile(ctx context.Context, profileID string) (*models.Child, error)
}

type UpdateRepository interface {
	GetByID(ctx context.Context, id string) (*models.Update, error)
}

type RecipientRepository interface {
	GetActiveByProfileAndEmail(ctx context.Context, profileID, email string) (*models.Recipient, error)
}

type MemoryRepository interface {
	// UpsertBySourceMessageID creates the memory unless a row with the same
	// source message id already exists; it returns the surviving row and
	// whether this call created it.
	UpsertBySourceMessageID(ctx context.Context, memory *models.Memory) (*models.Memory, bool, error)
}

type ResponseRepository interface {
	UpsertByExternalID(ctx context.Context, response *models.Response) (*models.Response, bool, error)
}

type InboundEventRepository interface {
	Record(ctx context.Context, event *models.InboundEvent) error
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
