// Package repository implements persistence for events, registrations, and
// attendance records. The Postgres implementations keep the denormalized
// event counters consistent by running every counter mutation inside a
// transaction that locks the event row; the in-memory implementation backs
// the test suites and serializes the same check-then-act sequences behind a
// single lock.
package repository

import (
	"context"
	"time"

	"wellhub/internal/database"
	"wellhub/internal/models"
)

// EventStore owns canonical event documents and their counters.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	// Update writes non-counter fields only; the counters have no update
	// path outside the registration/attendance transactions.
	Update(ctx context.Context, id string, upd models.UpdateEventRequest) (*models.Event, error)
	// Delete removes the event and every registration and attendance record
	// referencing it in a single all-or-nothing transaction.
	Delete(ctx context.Context, id string) error
	// Recount derives the counters from live rows for audit paths.
	Recount(ctx context.Context, id string) (*models.EventCounts, error)
	// CompletePast moves published events whose end time has passed to
	// completed, returning the number of events transitioned.
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// RegistrationStore owns registration documents. Register and Cancel are the
// only write paths and both update the parent event's registered counter
// atomically with the registration write.
type RegistrationStore interface {
	Register(ctx context.Context, eventID string, reg *models.Registration) error
	Cancel(ctx context.Context, registrationID string) (*models.Registration, error)
	GetByID(ctx context.Context, id string) (*models.Registration, error)
	// LatestForUser returns the most recent registration for the pair
	// regardless of status, or nil when the user never registered.
	LatestForUser(ctx context.Context, eventID, userID string) (*models.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
}

// AttendanceStore owns append-only attendance records. Mark writes the
// record, the registration outcome, and the attended counter in one
// transaction.
type AttendanceStore interface {
	Mark(ctx context.Context, registrationID string, status models.AttendanceStatus, adminID, notes string) (*models.AttendanceRecord, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error)
}

type Repositories struct {
	Events        EventStore
	Registrations RegistrationStore
	Attendance    AttendanceStore
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:        NewEventRepository(db),
		Registrations: NewRegistrationRepository(db),
		Attendance:    NewAttendanceRepository(db),
	}
}

// NewMemoryRepositories returns repositories backed by a single in-memory
// store, used by the test suites.
func NewMemoryRepositories() *Repositories {
	s := newMemoryStore()
	return &Repositories{
		Events:        s,
		Registrations: &memoryRegistrations{s: s},
		Attendance:    &memoryAttendance{s: s},
	}
}
