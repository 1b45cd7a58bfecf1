package models

import (
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// LocationType describes how an event is held.
type LocationType string

const (
	LocationPhysical LocationType = "physical"
	LocationOnline   LocationType = "online"
	LocationHybrid   LocationType = "hybrid"
)

func (t LocationType) Valid() bool {
	switch t {
	case LocationPhysical, LocationOnline, LocationHybrid:
		return true
	}
	return false
}

// RegistrationStatus is the state of a user's claim on an event seat.
//
// Transitions: registered -> {attended, no-show, cancelled};
// no-show -> attended (admin correction); waitlist -> registered (manual);
// cancelled is terminal.
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusAttended   RegistrationStatus = "attended"
	RegistrationStatusNoShow     RegistrationStatus = "no-show"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
	RegistrationStatusWaitlist   RegistrationStatus = "waitlist"
)

// PaymentStatus tracks payment for a registration. No gateway integration;
// this is a stored field only.
type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentStatusForPrice returns the initial payment status of a new
// registration: pending for paid events, paid for free ones.
func PaymentStatusForPrice(price int64) PaymentStatus {
	if price > 0 {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

// AttendanceStatus is the outcome recorded when an admin marks attendance.
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "present"
	AttendanceAbsent    AttendanceStatus = "absent"
	AttendanceLate      AttendanceStatus = "late"
	AttendanceLeftEarly AttendanceStatus = "left-early"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceLeftEarly:
		return true
	}
	return false
}

// CountsAsAttended reports whether the outcome counts the user as having
// shown up for counter purposes.
func (s AttendanceStatus) CountsAsAttended() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// RegistrationOutcome maps an attendance marking to the registration status
// it produces: present/late -> attended, everything else -> no-show.
func RegistrationOutcome(s AttendanceStatus) RegistrationStatus {
	if s.CountsAsAttended() {
		return RegistrationStatusAttended
	}
	return RegistrationStatusNoShow
}

// Event represents a schedulable activity with finite capacity.
// The registered and attended counters are denormalized and mutated only by
// the registration/attendance transactions, never by direct updates.
type Event struct {
	ID           string       `json:"id" db:"id"`
	Title        string       `json:"title" db:"title"`
	Description  string       `json:"description" db:"description"`
	Category     string       `json:"category" db:"category"`
	StartsAt     time.Time    `json:"starts_at" db:"starts_at"`
	EndsAt       time.Time    `json:"ends_at" db:"ends_at"`
	LocationType LocationType `json:"location_type" db:"location_type"`
	Location     string       `json:"location" db:"location"`
	Capacity     int          `json:"capacity" db:"capacity"`
	Price        int64        `json:"price" db:"price"`
	Registered   int          `json:"registered" db:"registered"`
	Attended     int          `json:"attended" db:"attended"`
	Status       EventStatus  `json:"status" db:"status"`
	Featured     bool         `json:"featured" db:"featured"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.Registered >= e.Capacity
}

// Remaining returns the number of available seats.
func (e *Event) Remaining() int {
	return e.Capacity - e.Registered
}

// Registration represents a user's claim on one seat of an event's capacity.
// AttendanceMarkedAt/By are set in the same transaction that moves the status
// to attended or no-show, so an outcome status without marking metadata
// cannot be produced.
type Registration struct {
	ID                 string             `json:"id" db:"id"`
	EventID            string             `json:"event_id" db:"event_id"`
	UserID             string             `json:"user_id" db:"user_id"`
	Name               string             `json:"name" db:"name"`
	Email              string             `json:"email" db:"email"`
	Phone              string             `json:"phone" db:"phone"`
	Status             RegistrationStatus `json:"status" db:"status"`
	PaymentStatus      PaymentStatus      `json:"payment_status" db:"payment_status"`
	RegisteredAt       time.Time          `json:"registered_at" db:"registered_at"`
	AttendanceMarkedAt *time.Time         `json:"attendance_marked_at,omitempty" db:"attendance_marked_at"`
	AttendanceMarkedBy *string            `json:"attendance_marked_by,omitempty" db:"attendance_marked_by"`
}

// IsActive reports whether the registration currently holds a seat.
// A user may hold at most one active registration per event.
func (r *Registration) IsActive() bool {
	return r.Status == RegistrationStatusRegistered || r.Status == RegistrationStatusAttended
}

// CanCancel reports whether the registration may transition to cancelled.
// Attended and no-show are outcomes; corrections go through attendance
// marking, not cancellation.
func (r *Registration) CanCancel() bool {
	return r.Status == RegistrationStatusRegistered || r.Status == RegistrationStatusWaitlist
}

// HoldsSeat reports whether the registration occupies a unit of the event's
// registered counter. Waitlisted entries never held a seat, so cancelling
// them must not decrement.
func (r *Registration) HoldsSeat() bool {
	return r.Status == RegistrationStatusRegistered || r.Status == RegistrationStatusAttended
}

// CanMarkAttendance reports whether an admin may record an attendance outcome
// for this registration. Re-marking an attended or no-show registration is an
// admin correction; the latest record wins.
func (r *Registration) CanMarkAttendance() bool {
	switch r.Status {
	case RegistrationStatusRegistered, RegistrationStatusAttended, RegistrationStatusNoShow:
		return true
	}
	return false
}

// AttendanceRecord is the outcome of checking whether a registered user
// actually showed up. Records are append-only; corrections create a new
// record and the latest one is authoritative.
type AttendanceRecord struct {
	ID             string           `json:"id" db:"id"`
	RegistrationID string           `json:"registration_id" db:"registration_id"`
	EventID        string           `json:"event_id" db:"event_id"`
	UserID         string           `json:"user_id" db:"user_id"`
	Status         AttendanceStatus `json:"status" db:"status"`
	CheckInAt      *time.Time       `json:"check_in_at,omitempty" db:"check_in_at"`
	CheckOutAt     *time.Time       `json:"check_out_at,omitempty" db:"check_out_at"`
	MarkedBy       string           `json:"marked_by" db:"marked_by"`
	Notes          string           `json:"notes" db:"notes"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}
