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

type recipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) interfaces.RecipientRepository {
	return &recipientRepository{db: db}
}

func (r *recipientRepository) GetActiveByProfileAndEmail(ctx context.Context, profileID, email string) (*models.Recipient, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "recipientRepository.GetActiveByProfileAndEmail")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var recipient models.Recipient
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND lower(email) = ? AND is_active = true", profileID, strings.ToLower(email)).
		First(&recipient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &recipient, nil
}
