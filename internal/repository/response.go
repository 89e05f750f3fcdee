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

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) interfaces.ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) UpsertByExternalID(ctx context.Context, response *models.Response) (*models.Response, bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "responseRepository.UpsertByExternalID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(response)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, false, result.Error
	}

	if result.RowsAffected > 0 {
		tracing.TagEntity(span, response.ID)
		return response, true, nil
	}

	var existing models.Response
	err := r.db.WithContext(ctx).
		Where("external_id = ?", response.ExternalID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errors.New("response upsert conflict but original row not found")
		}
		tracing.TraceErr(span, err)
		return nil, false, err
	}
	tracing.TagEntity(span, existing.ID)
	return &existing, false, nil
}
