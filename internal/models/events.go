package models

import "time"

// NATS Event Types
const (
	EventRegistrationCreated   = "registration.created"
	EventRegistrationCancelled = "registration.cancelled"
	EventAttendanceMarked      = "attendance.marked"
	EventEventCreated          = "event.created"
	EventEventDeleted          = "event.deleted"
)

// RegistrationCreatedEvent represents a successful registration
type RegistrationCreatedEvent struct {
	RegistrationID string    `json:"registration_id"`
	EventID        string    `json:"event_id"`
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	EventTitle     string    `json:"event_title"`
	Timestamp      time.Time `json:"timestamp"`
}

// RegistrationCancelledEvent represents a cancelled registration
type RegistrationCancelledEvent struct {
	RegistrationID string    `json:"registration_id"`
	EventID        string    `json:"event_id"`
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	Timestamp      time.Time `json:"timestamp"`
}

// AttendanceMarkedEvent represents an attendance marking
type AttendanceMarkedEvent struct {
	AttendanceID   string           `json:"attendance_id"`
	RegistrationID string           `json:"registration_id"`
	EventID        string           `json:"event_id"`
	UserID         string           `json:"user_id"`
	Status         AttendanceStatus `json:"status"`
	MarkedBy       string           `json:"marked_by"`
	Timestamp      time.Time        `json:"timestamp"`
}

// EventCreatedEvent represents a newly created event
type EventCreatedEvent struct {
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	Capacity  int       `json:"capacity"`
	Timestamp time.Time `json:"timestamp"`
}

// EventDeletedEvent represents a deleted event and its cascaded records
type EventDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}
