package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	stan "github.com/nats-io/stan.go"

	"wellhub/internal/external"
	"wellhub/internal/models"
	"wellhub/internal/repository"
)

// Handlers processes domain events delivered over NATS.
type Handlers struct {
	repos  *repository.Repositories
	mailer *external.Mailer
}

func NewHandlers(repos *repository.Repositories, mailer *external.Mailer) *Handlers {
	return &Handlers{repos: repos, mailer: mailer}
}

// HandleRegistrationCreated sends a confirmation email for a new
// registration.
func (h *Handlers) HandleRegistrationCreated(m *stan.Msg) {
	var event models.RegistrationCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal registration created event", "error", err)
		return
	}

	slog.Info("Processing registration created event",
		"registration_id", event.RegistrationID, "event_id", event.EventID)

	body := fmt.Sprintf("You are registered for %s. Your registration id is %s.",
		event.EventTitle, event.RegistrationID)
	if err := h.mailer.Send(context.Background(), event.Email, "Registration confirmed", body); err != nil {
		slog.Error("Failed to send confirmation email",
			"registration_id", event.RegistrationID, "error", err)
		return
	}

	m.Ack()
}

// HandleRegistrationCancelled sends a cancellation notice.
func (h *Handlers) HandleRegistrationCancelled(m *stan.Msg) {
	var event models.RegistrationCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal registration cancelled event", "error", err)
		return
	}

	slog.Info("Processing registration cancelled event",
		"registration_id", event.RegistrationID, "event_id", event.EventID)

	body := fmt.Sprintf("Your registration %s was cancelled.", event.RegistrationID)
	if err := h.mailer.Send(context.Background(), event.Email, "Registration cancelled", body); err != nil {
		slog.Error("Failed to send cancellation email",
			"registration_id", event.RegistrationID, "error", err)
		return
	}

	m.Ack()
}

// HandleAttendanceMarked logs attendance outcomes for downstream analytics.
func (h *Handlers) HandleAttendanceMarked(m *stan.Msg) {
	var event models.AttendanceMarkedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal attendance marked event", "error", err)
		return
	}

	slog.Info("Processing attendance marked event",
		"attendance_id", event.AttendanceID,
		"registration_id", event.RegistrationID,
		"status", event.Status,
		"marked_by", event.MarkedBy)

	m.Ack()
}
