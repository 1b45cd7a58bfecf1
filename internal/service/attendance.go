package service

import (
	"context"
	"time"

	"wellhub/internal/apperrors"
	"wellhub/internal/logger"
	"wellhub/internal/messaging"
	"wellhub/internal/metrics"
	"wellhub/internal/models"
	"wellhub/internal/repository"
)

// AttendanceService records attendance outcomes for registrations.
type AttendanceService struct {
	repos *repository.Repositories
	nats  *messaging.Client
}

func NewAttendanceService(repos *repository.Repositories, nats *messaging.Client) *AttendanceService {
	return &AttendanceService{repos: repos, nats: nats}
}

// Mark records an attendance outcome for a registration. The store applies
// the record, the registration status, and the event's attended counter in
// one transaction; marking the same registration again is a correction and
// moves the counter only when the outcome flips between attended and not.
func (s *AttendanceService) Mark(ctx context.Context, registrationID string, req *models.MarkAttendanceRequest, adminID string) (*models.AttendanceRecord, error) {
	if !req.Status.Valid() {
		return nil, apperrors.Validationf("invalid attendance status %q", req.Status)
	}
	if adminID == "" {
		return nil, apperrors.Validationf("marked_by is required")
	}

	record, err := s.repos.Attendance.Mark(ctx, registrationID, req.Status, adminID, req.Notes)
	if err != nil {
		return nil, err
	}
	metrics.AttendanceMarkedTotal.WithLabelValues(string(record.Status)).Inc()

	s.publish(ctx, models.EventAttendanceMarked, models.AttendanceMarkedEvent{
		AttendanceID:   record.ID,
		RegistrationID: record.RegistrationID,
		EventID:        record.EventID,
		UserID:         record.UserID,
		Status:         record.Status,
		MarkedBy:       record.MarkedBy,
		Timestamp:      time.Now(),
	})

	return record, nil
}

// ListByEvent returns all attendance records for an event, newest first.
func (s *AttendanceService) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error) {
	if _, err := s.repos.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repos.Attendance.ListByEvent(ctx, eventID)
}

func (s *AttendanceService) publish(ctx context.Context, subject string, payload any) {
	if s.nats == nil {
		return
	}
	if err := s.nats.Publish(subject, payload); err != nil {
		logger.WithContext(ctx).Error("failed to publish event", "subject", subject, "error", err)
	}
}
