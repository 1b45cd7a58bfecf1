package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wellhub/internal/apperrors"
	"wellhub/internal/cache"
	"wellhub/internal/logger"
	"wellhub/internal/messaging"
	"wellhub/internal/models"
	"wellhub/internal/repository"
	"wellhub/internal/search"
)

// EventService manages the event catalog.
type EventService struct {
	repos  *repository.Repositories
	nats   *messaging.Client
	es     *search.Client
	valkey *cache.ValkeyClient
}

func NewEventService(repos *repository.Repositories, nats *messaging.Client, es *search.Client, valkey *cache.ValkeyClient) *EventService {
	return &EventService{repos: repos, nats: nats, es: es, valkey: valkey}
}

// Create validates and stores a new event with zeroed counters.
func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	if err := validateEventRequest(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.EventStatusDraft
	}
	locationType := req.LocationType
	if locationType == "" {
		locationType = models.LocationPhysical
	}

	event := &models.Event{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		LocationType: locationType,
		Location:     req.Location,
		Capacity:     req.Capacity,
		Price:        req.Price,
		Status:       status,
		Featured:     req.Featured,
	}

	if err := s.repos.Events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.indexEvent(ctx, event)
	s.invalidateCache(ctx)
	s.publish(ctx, models.EventEventCreated, models.EventCreatedEvent{
		EventID:   event.ID,
		Title:     event.Title,
		Capacity:  event.Capacity,
		Timestamp: time.Now(),
	})

	return event, nil
}

// GetByID returns a single event.
func (s *EventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	return s.repos.Events.GetByID(ctx, id)
}

// List returns events matching the filter. When a text query is present and
// Elasticsearch is available the search index serves the request; otherwise
// the database does.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	if filter.Query != "" && s.es != nil {
		events, err := s.es.Search(ctx, filter)
		if err == nil {
			return events, nil
		}
		logger.WithContext(ctx).Warn("search fell back to database", "error", err)
	}

	return s.repos.Events.List(ctx, filter)
}

// Update applies a partial update. Counter fields are not updatable; a
// capacity reduction below the current registered count is rejected so the
// capacity invariant cannot be broken retroactively.
func (s *EventService) Update(ctx context.Context, id string, upd *models.UpdateEventRequest) (*models.Event, error) {
	if upd.Capacity != nil && *upd.Capacity <= 0 {
		return nil, apperrors.Validationf("capacity must be positive")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, apperrors.Validationf("invalid status %q", *upd.Status)
	}
	if upd.LocationType != nil && !upd.LocationType.Valid() {
		return nil, apperrors.Validationf("invalid location type %q", *upd.LocationType)
	}
	if upd.Title != nil && *upd.Title == "" {
		return nil, apperrors.Validationf("title must not be empty")
	}
	if upd.StartsAt != nil && upd.EndsAt != nil && upd.EndsAt.Before(*upd.StartsAt) {
		return nil, apperrors.Validationf("ends_at must not be before starts_at")
	}

	event, err := s.repos.Events.Update(ctx, id, *upd)
	if err != nil {
		return nil, err
	}

	if s.es != nil {
		if err := s.es.UpdateEvent(ctx, event); err != nil {
			logger.WithContext(ctx).Error("failed to reindex event", "event_id", id, "error", err)
		}
	}
	s.invalidateCache(ctx)

	return event, nil
}

// Delete removes an event together with its registrations and attendance
// records.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Events.Delete(ctx, id); err != nil {
		return err
	}

	if s.es != nil {
		if err := s.es.DeleteEvent(ctx, id); err != nil {
			logger.WithContext(ctx).Error("failed to delete event from index", "event_id", id, "error", err)
		}
	}
	s.invalidateCache(ctx)
	s.publish(ctx, models.EventEventDeleted, models.EventDeletedEvent{
		EventID:   id,
		Timestamp: time.Now(),
	})

	return nil
}

// Recount compares the stored counters against counts derived from live
// registration rows.
func (s *EventService) Recount(ctx context.Context, id string) (*models.EventCounts, error) {
	counts, err := s.repos.Events.Recount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !counts.InSync() {
		logger.WithContext(ctx).Error("event counters out of sync",
			"event_id", id,
			"stored_registered", counts.StoredRegistered,
			"derived_registered", counts.DerivedRegistered,
			"stored_attended", counts.StoredAttended,
			"derived_attended", counts.DerivedAttended,
		)
	}
	return counts, nil
}

func validateEventRequest(req *models.CreateEventRequest) error {
	if req.Title == "" {
		return apperrors.Validationf("title is required")
	}
	if req.Capacity <= 0 {
		return apperrors.Validationf("capacity must be positive")
	}
	if req.Price < 0 {
		return apperrors.Validationf("price must not be negative")
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return apperrors.Validationf("starts_at and ends_at are required")
	}
	if req.EndsAt.Before(req.StartsAt) {
		return apperrors.Validationf("ends_at must not be before starts_at")
	}
	if req.Status != "" && !req.Status.Valid() {
		return apperrors.Validationf("invalid status %q", req.Status)
	}
	if req.LocationType != "" && !req.LocationType.Valid() {
		return apperrors.Validationf("invalid location type %q", req.LocationType)
	}
	return nil
}

func (s *EventService) indexEvent(ctx context.Context, event *models.Event) {
	if s.es == nil {
		return
	}
	if err := s.es.IndexEvent(ctx, event); err != nil {
		logger.WithContext(ctx).Error("failed to index event", "event_id", event.ID, "error", err)
	}
}

func (s *EventService) invalidateCache(ctx context.Context) {
	if s.valkey == nil {
		return
	}
	if err := s.valkey.InvalidateEvents(ctx); err != nil {
		logger.WithContext(ctx).Warn("failed to invalidate events cache", "error", err)
	}
}

func (s *EventService) publish(ctx context.Context, subject string, payload any) {
	if s.nats == nil {
		return
	}
	if err := s.nats.Publish(subject, payload); err != nil {
		logger.WithContext(ctx).Error("failed to publish event", "subject", subject, "error", err)
	}
}
