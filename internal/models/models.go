package models

import "time"

// CreateEventRequest - payload for creating an event
type CreateEventRequest struct {
	Title        string       `json:"title" binding:"required"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	StartsAt     time.Time    `json:"starts_at"`
	EndsAt       time.Time    `json:"ends_at"`
	LocationType LocationType `json:"location_type"`
	Location     string       `json:"location"`
	Capacity     int          `json:"capacity"`
	Price        int64        `json:"price"`
	Status       EventStatus  `json:"status"`
	Featured     bool         `json:"featured"`
}

// CreateEventResponse - response after creating an event
type CreateEventResponse struct {
	ID string `json:"id"`
}

// UpdateEventRequest - partial update of an event. Counter fields are not
// part of this type; only the transactional register/cancel/mark paths may
// touch them.
type UpdateEventRequest struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Category     *string       `json:"category"`
	StartsAt     *time.Time    `json:"starts_at"`
	EndsAt       *time.Time    `json:"ends_at"`
	LocationType *LocationType `json:"location_type"`
	Location     *string       `json:"location"`
	Capacity     *int          `json:"capacity"`
	Price        *int64        `json:"price"`
	Status       *EventStatus  `json:"status"`
	Featured     *bool         `json:"featured"`
}

// EventFilter - filters for listing events
type EventFilter struct {
	Status       EventStatus
	Category     string
	LocationType LocationType
	Featured     *bool
	Query        string
	From         *time.Time
	To           *time.Time
	Page         int
	PageSize     int
}

// RegisterRequest - payload for registering a user for an event
type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

// RegisterResponse - response after a successful registration
type RegisterResponse struct {
	RegistrationID string        `json:"registration_id"`
	Status         string        `json:"status"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
}

// MarkAttendanceRequest - payload for marking attendance on a registration
type MarkAttendanceRequest struct {
	Status AttendanceStatus `json:"status" binding:"required"`
	Notes  string           `json:"notes"`
}

// EventCounts - stored counters next to counts derived from live rows,
// used by the audit recount endpoint to detect drift.
type EventCounts struct {
	EventID           string `json:"event_id"`
	StoredRegistered  int    `json:"stored_registered"`
	StoredAttended    int    `json:"stored_attended"`
	DerivedRegistered int    `json:"derived_registered"`
	DerivedAttended   int    `json:"derived_attended"`
}

// InSync reports whether the stored counters match the derived counts.
func (c *EventCounts) InSync() bool {
	return c.StoredRegistered == c.DerivedRegistered && c.StoredAttended == c.DerivedAttended
}
