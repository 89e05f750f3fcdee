package repository

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/models"
	"github.com/hearthside/mailroom/internal/tracing"
)

type childRepository struct {
	db *gorm.DB
}

func NewChildRepository(db *gorm.DB) interfaces.ChildRepository {
	return &childRepository{db: db}
}

func (r *childRepository) GetByProfileAndName(ctx context.Context, profileID, name string) (*models.Child, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "childRepository.GetByProfileAndName")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var child models.Child
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND lower(name) = ?", profileID, strings.ToLower(strings.TrimSpace(name))).
		First(&child).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &child, nil
}

// GetYoungestByProfile returns the most recently born child, the default
// target when a memory email carries no usable name hint.
func (r *childRepository) GetYoungestByProfile(ctx context.Context, profileID string) (*models.Child, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "childRepository.GetYoungestByProfile")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var child models.Child
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("birth_date DESC NULLS LAST").
		Order("created_at DESC").
		First(&child).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &child, nil
}
