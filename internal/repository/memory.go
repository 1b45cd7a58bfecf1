package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wellhub/internal/apperrors"
	"wellhub/internal/models"
)

// memoryStore is an in-memory implementation of the three stores. A single
// mutex serializes every check-then-act sequence, which is the in-process
// equivalent of the row lock the Postgres implementation takes, so the
// coordinator flow behaves identically under concurrent use.
type memoryStore struct {
	mu            sync.Mutex
	events        map[string]*models.Event
	registrations map[string]*models.Registration
	regOrder      []string // insertion order, newest last
	attendance    []*models.AttendanceRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		events:        make(map[string]*models.Event),
		registrations: make(map[string]*models.Registration),
	}
}

var (
	_ EventStore        = (*memoryStore)(nil)
	_ RegistrationStore = (*memoryRegistrations)(nil)
	_ AttendanceStore   = (*memoryAttendance)(nil)
)

func copyEvent(e *models.Event) *models.Event {
	c := *e
	return &c
}

func copyRegistration(r *models.Registration) *models.Registration {
	c := *r
	return &c
}

// EventStore

func (s *memoryStore) Create(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	event.Registered = 0
	event.Attended = 0
	event.CreatedAt = now
	event.UpdatedAt = now
	s.events[event.ID] = copyEvent(event)
	return nil
}

func (s *memoryStore) GetByID(ctx context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyEvent(event), nil
}

func (s *memoryStore) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []models.Event
	for _, e := range s.events {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.LocationType != "" && e.LocationType != filter.LocationType {
			continue
		}
		if filter.Featured != nil && e.Featured != *filter.Featured {
			continue
		}
		if filter.From != nil && e.StartsAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.StartsAt.After(*filter.To) {
			continue
		}
		if filter.Query != "" && !matchesQuery(e, filter.Query) {
			continue
		}
		events = append(events, *copyEvent(e))
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset >= len(events) {
			return nil, nil
		}
		end := offset + filter.PageSize
		if end > len(events) {
			end = len(events)
		}
		events = events[offset:end]
	}

	return events, nil
}

func matchesQuery(e *models.Event, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

func (s *memoryStore) Update(ctx context.Context, id string, upd models.UpdateEventRequest) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Category != nil {
		event.Category = *upd.Category
	}
	if upd.StartsAt != nil {
		event.StartsAt = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		event.EndsAt = *upd.EndsAt
	}
	if upd.LocationType != nil {
		event.LocationType = *upd.LocationType
	}
	if upd.Location != nil {
		event.Location = *upd.Location
	}
	if upd.Capacity != nil {
		if *upd.Capacity < event.Registered {
			return nil, apperrors.Validationf("capacity %d is below current registrations %d", *upd.Capacity, event.Registered)
		}
		event.Capacity = *upd.Capacity
	}
	if upd.Price != nil {
		event.Price = *upd.Price
	}
	if upd.Status != nil {
		event.Status = *upd.Status
	}
	if upd.Featured != nil {
		event.Featured = *upd.Featured
	}
	event.UpdatedAt = time.Now()

	return copyEvent(event), nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return apperrors.ErrNotFound
	}

	delete(s.events, id)

	remaining := s.regOrder[:0]
	for _, regID := range s.regOrder {
		if s.registrations[regID].EventID == id {
			delete(s.registrations, regID)
			continue
		}
		remaining = append(remaining, regID)
	}
	s.regOrder = remaining

	var records []*models.AttendanceRecord
	for _, rec := range s.attendance {
		if rec.EventID != id {
			records = append(records, rec)
		}
	}
	s.attendance = records

	return nil
}

func (s *memoryStore) Recount(ctx context.Context, id string) (*models.EventCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	counts := &models.EventCounts{
		EventID:          id,
		StoredRegistered: event.Registered,
		StoredAttended:   event.Attended,
	}
	for _, reg := range s.registrations {
		if reg.EventID != id {
			continue
		}
		if reg.IsActive() {
			counts.DerivedRegistered++
		}
		if reg.Status == models.RegistrationStatusAttended {
			counts.DerivedAttended++
		}
	}

	return counts, nil
}

func (s *memoryStore) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var completed int64
	for _, e := range s.events {
		if e.Status == models.EventStatusPublished && e.EndsAt.Before(now) {
			e.Status = models.EventStatusCompleted
			e.UpdatedAt = now
			completed++
		}
	}
	return completed, nil
}

// memoryRegistrations is the RegistrationStore view over the shared store.
// RegistrationStore and EventStore both name GetByID and ListByEvent methods,
// so the store cannot implement both on one type.
type memoryRegistrations struct {
	s *memoryStore
}

func (r *memoryRegistrations) Register(ctx context.Context, eventID string, reg *models.Registration) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[eventID]
	if !ok {
		return apperrors.ErrNotFound
	}

	if event.IsFull() {
		return apperrors.ErrCapacityExceeded
	}

	if last := s.latestForUserLocked(eventID, reg.UserID); last != nil && last.IsActive() {
		return apperrors.ErrDuplicateRegistration
	}

	reg.EventID = eventID
	reg.Status = models.RegistrationStatusRegistered
	reg.PaymentStatus = models.PaymentStatusForPrice(event.Price)
	reg.RegisteredAt = time.Now()

	s.registrations[reg.ID] = copyRegistration(reg)
	s.regOrder = append(s.regOrder, reg.ID)
	event.Registered++
	event.UpdatedAt = reg.RegisteredAt
	return nil
}

func (r *memoryRegistrations) Cancel(ctx context.Context, registrationID string) (*models.Registration, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[registrationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	if !reg.CanCancel() {
		return nil, apperrors.Validationf("cannot cancel a %s registration", reg.Status)
	}
	heldSeat := reg.Status == models.RegistrationStatusRegistered

	reg.Status = models.RegistrationStatusCancelled

	if heldSeat {
		if event, ok := s.events[reg.EventID]; ok && event.Registered > 0 {
			event.Registered--
			event.UpdatedAt = time.Now()
		}
	}

	return copyRegistration(reg), nil
}

func (r *memoryRegistrations) GetByID(ctx context.Context, id string) (*models.Registration, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyRegistration(reg), nil
}

func (r *memoryRegistrations) LatestForUser(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	reg := s.latestForUserLocked(eventID, userID)
	if reg == nil {
		return nil, nil
	}
	return copyRegistration(reg), nil
}

func (s *memoryStore) latestForUserLocked(eventID, userID string) *models.Registration {
	for i := len(s.regOrder) - 1; i >= 0; i-- {
		reg := s.registrations[s.regOrder[i]]
		if reg.EventID == eventID && reg.UserID == userID {
			return reg
		}
	}
	return nil
}

func (r *memoryRegistrations) ListByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var regs []models.Registration
	for i := len(s.regOrder) - 1; i >= 0; i-- {
		reg := s.registrations[s.regOrder[i]]
		if reg.EventID == eventID {
			regs = append(regs, *copyRegistration(reg))
		}
	}
	return regs, nil
}

// memoryAttendance is the AttendanceStore view over the shared store.
type memoryAttendance struct {
	s *memoryStore
}

func (a *memoryAttendance) Mark(ctx context.Context, registrationID string, status models.AttendanceStatus, adminID, notes string) (*models.AttendanceRecord, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[registrationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	if !reg.CanMarkAttendance() {
		return nil, apperrors.Validationf("cannot mark attendance on a %s registration", reg.Status)
	}

	event, ok := s.events[reg.EventID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	now := time.Now()
	record := &models.AttendanceRecord{
		ID:             uuid.New().String(),
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserID:         reg.UserID,
		Status:         status,
		MarkedBy:       adminID,
		Notes:          notes,
		CreatedAt:      now,
	}
	if status.CountsAsAttended() {
		record.CheckInAt = &now
	}
	s.attendance = append(s.attendance, record)

	newStatus := models.RegistrationOutcome(status)
	wasAttended := reg.Status == models.RegistrationStatusAttended
	nowAttended := newStatus == models.RegistrationStatusAttended

	reg.Status = newStatus
	reg.AttendanceMarkedAt = &now
	reg.AttendanceMarkedBy = &adminID

	switch {
	case nowAttended && !wasAttended:
		event.Attended++
	case wasAttended && !nowAttended:
		if event.Attended > 0 {
			event.Attended--
		}
	}
	event.UpdatedAt = now

	rc := *record
	return &rc, nil
}

func (a *memoryAttendance) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceRecord, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []models.AttendanceRecord
	for i := len(s.attendance) - 1; i >= 0; i-- {
		rec := s.attendance[i]
		if rec.EventID == eventID {
			records = append(records, *rec)
		}
	}
	return records, nil
}
