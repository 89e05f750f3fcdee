package ingestion

import (
	"context"
	"mime/multipart"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/log"

	"github.com/hearthside/mailroom/dto"
	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/enum"
	"github.com/hearthside/mailroom/internal/errs"
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/models"
	"github.com/hearthside/mailroom/internal/repository"
	"github.com/hearthside/mailroom/internal/tracing"
	"github.com/hearthside/mailroom/internal/utils"
)

// IngestionService runs the full inbound pipeline for one submission:
// decode, route, validate, resolve media, persist, announce. Rejections
// come back as a ProcessingResult with a reason; an error return means an
// infrastructure failure the caller should surface as a 500.
type IngestionService struct {
	log          logger.Logger
	repositories *repository.Repositories
	storage      interfaces.StorageService
	publisher    interfaces.EventPublisher

	decoder  *FormDecoder
	router   *IntentRouter
	gate     *ValidationGate
	resolver *MediaResolver
}

func NewIngestionService(
	log logger.Logger,
	repositories *repository.Repositories,
	storage interfaces.StorageService,
	publisher interfaces.EventPublisher,
	memoryAddress string,
) *IngestionService {
	return &IngestionService{
		log:          log,
		repositories: repositories,
		storage:      storage,
		publisher:    publisher,
		decoder:      NewFormDecoder(log),
		router:       NewIntentRouter(memoryAddress),
		gate:         NewValidationGate(),
		resolver:     NewMediaResolver(storage, log),
	}
}

func (s *IngestionService) ProcessInboundEmail(ctx context.Context, form *multipart.Form) (ProcessingResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.ProcessInboundEmail")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	submission := s.decoder.Decode(ctx, form)
	msg := &submission.Message

	if msg.To == "" || msg.From == "" {
		return rejected(enum.RouteUnknown, errs.ErrMissingEmailFields.Error(), ""), nil
	}

	decision := s.router.Route(msg.To, msg.Subject)
	span.SetTag("route.kind", decision.Kind.String())

	if decision.Kind == enum.RouteUnknown {
		result := rejected(enum.RouteUnknown, errs.ErrUnknownMailbox.Error(), decision.RawAddress)
		s.recordLedger(ctx, msg, decision.Kind, enum.IngestRejected, "", result.Reason)
		return result, nil
	}

	if err := s.gate.ValidatePolicy(msg); err != nil {
		result := rejected(decision.Kind, err.Error(), "")
		s.recordLedger(ctx, msg, decision.Kind, enum.IngestRejected, "", result.Reason)
		return result, nil
	}

	catalog := NewAttachmentCatalog(submission.Attachments)

	switch decision.Kind {
	case enum.RouteMemory:
		return s.processMemory(ctx, msg, decision, catalog)
	default:
		return s.processResponse(ctx, msg, decision, catalog)
	}
}

func (s *IngestionService) processMemory(ctx context.Context, msg *InboundEmailMessage, decision RoutingDecision, catalog *AttachmentCatalog) (ProcessingResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.processMemory")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	profile, err := s.repositories.ProfileRepository.GetByEmail(ctx, msg.From)
	if err != nil {
		tracing.TraceErr(span, err)
		return ProcessingResult{}, err
	}
	if profile == nil {
		result := rejected(enum.RouteMemory, errs.ErrUnknownSender.Error(), msg.From)
		s.recordLedger(ctx, msg, enum.RouteMemory, enum.IngestRejected, "", result.Reason)
		return result, nil
	}
	tracing.TagEntity(span, profile.ID)

	child, err := s.lookupChild(ctx, profile.ID, decision.ChildNameHint)
	if err != nil {
		tracing.TraceErr(span, err)
		return ProcessingResult{}, err
	}
	if child == nil {
		result := rejected(enum.RouteMemory, errs.ErrChildNotFound.Error(), decision.ChildNameHint)
		s.recordLedger(ctx, msg, enum.RouteMemory, enum.IngestRejected, "", result.Reason)
		return result, nil
	}

	content := CleanEmailContent(msg.Body())
	resolution := s.resolver.Resolve(ctx, profile.ID, msg.HTML, catalog)

	if err := s.gate.ValidateMemoryContent(decision.Subject, content, resolution.MediaURLs); err != nil {
		result := rejected(enum.RouteMemory, err.Error(), "")
		s.recordLedger(ctx, msg, enum.RouteMemory, enum.IngestRejected, "", result.Reason)
		return result, nil
	}

	memory := &models.Memory{
		ProfileID:       profile.ID,
		ChildID:         child.ID,
		Subject:         decision.Subject,
		Content:         content,
		RichContent:     resolution.HTML,
		ContentFormat:   enum.ContentFormatEmail,
		MediaURLs:       resolution.MediaURLs,
		Status:          enum.MemoryStatusDraft,
		SourceMessageID: msg.DedupeID(),
	}

	persisted, created, err := s.repositories.MemoryRepository.UpsertBySourceMessageID(ctx, memory)
	if err != nil {
		tracing.TraceErr(span, err)
		return ProcessingResult{}, err
	}

	outcome := enum.IngestAccepted
	if !created {
		outcome = enum.IngestDuplicate
		s.log.Infof("Duplicate memory submission for message %s", msg.DedupeID())
	}
	s.recordLedger(ctx, msg, enum.RouteMemory, outcome, persisted.ID, "")

	if created {
		s.publish(ctx, dto.Event{
			Event: dto.EventDetails{
				EntityId:  persisted.ID,
				EventType: dto.EventMemoryCreated,
				Data: dto.MemoryCreated{
					MemoryID:  persisted.ID,
					ProfileID: persisted.ProfileID,
					ChildID:   persisted.ChildID,
					MediaURLs: persisted.MediaURLs,
				},
			},
		})
	}

	return ProcessingResult{Success: true, Kind: enum.RouteMemory, EntityID: persisted.ID}, nil
}

func (s *IngestionService) processResponse(ctx context.Context, msg *InboundEmailMessage, decision RoutingDecision, catalog *AttachmentCatalog) (ProcessingResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.processResponse")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	update, err := s.repositories.UpdateRepository.GetByID(ctx, decision.UpdateID)
	if err != nil {
		tracing.TraceErr(span, err)
		return ProcessingResult{}, err
	}
	if update == nil {
		result := rejected(enum.RouteResponse, errs.ErrUpdateNotFound.Error(), decision.UpdateID)
		s.recordLedger(ctx, msg, enum.RouteResponse, enum.IngestRejected, "", result.Reason)
		return result, nil
	}
	tracing.TagEntity(span, update.ID)

	recipient, err := s.repositories.RecipientRepository.GetActiveByProfileAndEmail(ctx, update.ProfileID, msg.From)
	if err != nil {
		tracing.TraceErr(span, err)
		return ProcessingResult{}, err
	}
	if recipient == nil {
		result := rejected(enum.RouteResponse, errs.ErrRecipientNotFound.Error(), msg.From)
		s.recordLedger(ctx, msg, enum.RouteResponse, enum.IngestRejected, "", result.Reason)
		return result, nil
	}

	content := CleanEmailContent(msg.Body())
	resolution := s.resolver.Resolve(ctx, update.ID, msg.HTML, catalog)

	response := &models.Response{
		UpdateID:    update.ID,
		RecipientID: recipient.ID,
		Channel:     enum.ChannelEmail,
		Content:     content,
		MediaURLs:   resolution.MediaURLs,
		ExternalID:  msg.DedupeID(),
		ReceivedAt:  utils.Now(),
	}

	persisted, created, err := s.repositories.ResponseRepository.UpsertByExternalID(ctx, response)
	if err != nil {
		tracing.TraceErr(span, err)
		return ProcessingResult{}, err
	}

	outcome := enum.IngestAccepted
	if !created {
		outcome = enum.IngestDuplicate
		s.log.Infof("Duplicate response submission for message %s", msg.DedupeID())
	}
	s.recordLedger(ctx, msg, enum.RouteResponse, outcome, persisted.ID, "")

	if created {
		s.publish(ctx, dto.Event{
			Event: dto.EventDetails{
				EntityId:  persisted.ID,
				EventType: dto.EventResponseCreated,
				Data: dto.ResponseCreated{
					ResponseID:  persisted.ID,
					UpdateID:    persisted.UpdateID,
					RecipientID: persisted.RecipientID,
					Channel:     persisted.Channel,
				},
			},
		})
	}

	return ProcessingResult{Success: true, Kind: enum.RouteResponse, EntityID: persisted.ID}, nil
}

// lookupChild resolves the named child when a hint is present, the
// youngest child otherwise.
func (s *IngestionService) lookupChild(ctx context.Context, profileID, nameHint string) (*models.Child, error) {
	if nameHint != "" {
		child, err := s.repositories.ChildRepository.GetByProfileAndName(ctx, profileID, nameHint)
		if err != nil || child != nil {
			return child, err
		}
		// an unmatched hint falls through to the default child
		s.log.Warnf("No child named %q for profile %s, falling back to youngest", nameHint, profileID)
	}
	return s.repositories.ChildRepository.GetYoungestByProfile(ctx, profileID)
}

// recordLedger appends one row to the inbound ledger. The ledger is an
// audit trail; a write failure is logged and never fails the request.
func (s *IngestionService) recordLedger(ctx context.Context, msg *InboundEmailMessage, kind enum.RouteKind, outcome enum.IngestOutcome, entityID, detail string) {
	event := &models.InboundEvent{
		MessageID:   msg.DedupeID(),
		FromAddress: msg.From,
		ToAddress:   msg.To,
		RouteKind:   kind,
		Outcome:     outcome,
		EntityID:    entityID,
		Detail:      detail,
	}
	if err := s.repositories.InboundEventRepository.Record(ctx, event); err != nil {
		s.log.Errorf("Failed to record inbound event for message %s: %v", msg.DedupeID(), err)
	}
}

// publish announces a created entity. Publishing is best effort; the row
// is already committed and the relay should not retry on a broker hiccup.
func (s *IngestionService) publish(ctx context.Context, event dto.Event) {
	if s.publisher == nil {
		return
	}
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestionService.publish")
	defer span.Finish()
	span.LogFields(log.String("eventType", event.Event.EventType))

	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to publish %s event for %s: %v", event.Event.EventType, event.Event.EntityId, err)
	}
}
