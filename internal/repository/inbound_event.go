package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/models"
	"github.com/hearthside/mailroom/internal/tracing"
	"github.com/hearthside/mailroom/internal/utils"
)

type inboundEventRepository struct {
	db *gorm.DB
}

func NewInboundEventRepository(db *gorm.DB) interfaces.InboundEventRepository {
	return &inboundEventRepository{db: db}
}

func (r *inboundEventRepository) Record(ctx context.Context, event *models.InboundEvent) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "inboundEventRepository.Record")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"outcome", "entity_id", "detail"}),
		}).
		Create(event).Error
	if err != nil {
		tracing.TraceErr(span, err)
	}
	return err
}

func (r *inboundEventRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "inboundEventRepository.DeleteOlderThan")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	cutoff := utils.Now().Add(-time.Duration(days) * 24 * time.Hour)
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.InboundEvent{})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
