package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/models"
	"github.com/hearthside/mailroom/internal/tracing"
)

type memoryRepository struct {
	db *gorm.DB
}

func NewMemoryRepository(db *gorm.DB) interfaces.MemoryRepository {
	return &memoryRepository{db: db}
}

// UpsertBySourceMessageID inserts the memory, treating a source-message-id
// conflict as success-without-effect. The webhook is delivered at least
// once, so the second delivery must land on the first row.
func (r *memoryRepository) UpsertBySourceMessageID(ctx context.Context, memory *models.Memory) (*models.Memory, bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "memoryRepository.UpsertBySourceMessageID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_message_id"}},
			DoNothing: true,
		}).
		Create(memory)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, false, result.Error
	}

	if result.RowsAffected > 0 {
		tracing.TagEntity(span, memory.ID)
		return memory, true, nil
	}

	// Conflict: fetch the original row so callers can report its id.
	var existing models.Memory
	err := r.db.WithContext(ctx).
		Where("source_message_id = ?", memory.SourceMessageID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errors.New("memory upsert conflict but original row not found")
		}
		tracing.TraceErr(span, err)
		return nil, false, err
	}
	tracing.TagEntity(span, existing.ID)
	return &existing, false, nil
}
