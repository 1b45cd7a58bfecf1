package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"wellhub/internal/apperrors"
	"wellhub/internal/cache"
	"wellhub/internal/logger"
	"wellhub/internal/messaging"
	"wellhub/internal/metrics"
	"wellhub/internal/models"
	"wellhub/internal/repository"
)

// RegistrationService handles seat registration and cancellation.
type RegistrationService struct {
	repos  *repository.Repositories
	nats   *messaging.Client
	valkey *cache.ValkeyClient
}

func NewRegistrationService(repos *repository.Repositories, nats *messaging.Client, valkey *cache.ValkeyClient) *RegistrationService {
	return &RegistrationService{repos: repos, nats: nats, valkey: valkey}
}

// Register claims a seat on the event for the user. The store runs the
// capacity and duplicate checks atomically with the counter increment, so
// concurrent registrations cannot oversell the event.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID string, req *models.RegisterRequest) (*models.Registration, error) {
	if err := validateRegisterRequest(req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	reg := &models.Registration{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:  strings.TrimSpace(req.Phone),
		Status: models.RegistrationStatusRegistered,
	}

	if err := s.repos.Registrations.Register(ctx, eventID, reg); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()

	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		logger.WithContext(ctx).Warn("failed to load event after registration", "event_id", eventID, "error", err)
	}
	title := ""
	if event != nil {
		title = event.Title
	}

	s.publish(ctx, models.EventRegistrationCreated, models.RegistrationCreatedEvent{
		RegistrationID: reg.ID,
		EventID:        eventID,
		UserID:         userID,
		Email:          reg.Email,
		EventTitle:     title,
		Timestamp:      time.Now(),
	})
	s.invalidateCache(ctx)

	return reg, nil
}

// Cancel releases the user's registration. The seat is returned to the pool
// only if the registration actually held one.
func (s *RegistrationService) Cancel(ctx context.Context, registrationID string) (*models.Registration, error) {
	reg, err := s.repos.Registrations.Cancel(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	metrics.CancellationsTotal.Inc()

	s.publish(ctx, models.EventRegistrationCancelled, models.RegistrationCancelledEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		Email:          reg.Email,
		Timestamp:      time.Now(),
	})
	s.invalidateCache(ctx)

	return reg, nil
}

// GetByID returns a single registration.
func (s *RegistrationService) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	return s.repos.Registrations.GetByID(ctx, id)
}

// GetUserRegistration returns the user's latest registration for the event.
func (s *RegistrationService) GetUserRegistration(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	reg, err := s.repos.Registrations.LatestForUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, apperrors.ErrNotFound
	}
	return reg, nil
}

// ListByEvent returns all registrations for an event, newest first.
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	if _, err := s.repos.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repos.Registrations.ListByEvent(ctx, eventID)
}

func validateRegisterRequest(req *models.RegisterRequest) error {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if name == "" {
		return apperrors.Validationf("name is required")
	}
	if email == "" {
		return apperrors.Validationf("email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return apperrors.Validationf("invalid email %q", email)
	}
	return nil
}

func registerResult(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, apperrors.ErrDuplicateRegistration):
		return "duplicate"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (s *RegistrationService) publish(ctx context.Context, subject string, payload any) {
	if s.nats == nil {
		return
	}
	if err := s.nats.Publish(subject, payload); err != nil {
		logger.WithContext(ctx).Error("failed to publish event", "subject", subject, "error", err)
	}
}

func (s *RegistrationService) invalidateCache(ctx context.Context) {
	if s.valkey == nil {
		return
	}
	if err := s.valkey.InvalidateEvents(ctx); err != nil {
		logger.WithContext(ctx).Warn("failed to invalidate events cache", "error", err)
	}
}
