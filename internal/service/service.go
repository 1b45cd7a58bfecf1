// Package service implements the business rules that keep events,
// registrations, and attendance consistent: capacity is never oversold, a
// user holds at most one active registration per event, and the event
// counters only move together with the rows they summarize.
package service

import (
	"wellhub/internal/cache"
	"wellhub/internal/messaging"
	"wellhub/internal/repository"
	"wellhub/internal/search"
)

// Services aggregates all business services.
type Services struct {
	Events        *EventService
	Registrations *RegistrationService
	Attendance    *AttendanceService
}

// NewServices wires the services over the given repositories. The NATS,
// Elasticsearch, and Valkey clients are optional; a nil client disables the
// corresponding side effect without affecting the core flow.
func NewServices(repos *repository.Repositories, nats *messaging.Client, es *search.Client, valkey *cache.ValkeyClient) *Services {
	return &Services{
		Events:        NewEventService(repos, nats, es, valkey),
		Registrations: NewRegistrationService(repos, nats, valkey),
		Attendance:    NewAttendanceService(repos, nats),
	}
}
