package handlers

import (
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/services"
)

type APIHandlers struct {
	InboundEmail *InboundEmailHandler
}

func InitHandlers(log logger.Logger, s *services.Services) *APIHandlers {
	return &APIHandlers{
		InboundEmail: NewInboundEmailHandler(log, s.IngestionService),
	}
}
