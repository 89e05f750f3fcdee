package services

import (
	"github.com/hearthside/mailroom/config"
	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/repository"
	"github.com/hearthside/mailroom/services/events"
	"github.com/hearthside/mailroom/services/ingestion"
	"github.com/hearthside/mailroom/services/storage"
)

type Services struct {
	StorageService   interfaces.StorageService
	EventsService    *events.EventsService
	IngestionService *ingestion.IngestionService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	storageService := storage.NewMediaStorageService(cfg.StorageConfig)

	// events are optional; without a broker url created entities are
	// persisted but not announced
	var eventsService *events.EventsService
	var publisher interfaces.EventPublisher
	if cfg.AppConfig.RabbitMQURL != "" {
		publisherConfig := &events.PublisherConfig{
			MessageTTL:          events.DefaultMessageTTL,
			MaxRetries:          events.DefaultMaxRetries,
			PublishTimeout:      events.DefaultPublishTimeout,
			ReconnectBackoff:    events.DefaultReconnectBackoff,
			MaxReconnectBackoff: events.DefaultMaxReconnectBackoff,
		}

		var err error
		eventsService, err = events.NewEventsService(cfg.AppConfig.RabbitMQURL, log, publisherConfig)
		if err != nil {
			return nil, err
		}
		publisher = eventsService
	} else {
		log.Warn("RabbitMQ url not configured, event publishing disabled")
	}

	ingestionService := ingestion.NewIngestionService(
		log,
		repos,
		storageService,
		publisher,
		cfg.MemoryAddress(),
	)

	return &Services{
		StorageService:   storageService,
		EventsService:    eventsService,
		IngestionService: ingestionService,
	}, nil
}

func (s *Services) Close() {
	if s.EventsService != nil {
		_ = s.EventsService.Close()
	}
}
