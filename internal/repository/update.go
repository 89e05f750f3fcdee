package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/models"
	"github.com/hearthside/mailroom/internal/tracing"
)

type updateRepository struct {
	db *gorm.DB
}

func NewUpdateRepository(db *gorm.DB) interfaces.UpdateRepository {
	return &updateRepository{db: db}
}

func (r *updateRepository) GetByID(ctx context.Context, id string) (*models.Update, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "updateRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var update models.Update
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&update).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &update, nil
}
