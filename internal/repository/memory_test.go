package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellhub/internal/apperrors"
	"wellhub/internal/models"
)

func newTestEvent(capacity int) *models.Event {
	now := time.Now()
	return &models.Event{
		ID:           uuid.NewString(),
		Title:        "Morning Yoga",
		Category:     "yoga",
		StartsAt:     now.Add(24 * time.Hour),
		EndsAt:       now.Add(25 * time.Hour),
		LocationType: models.LocationPhysical,
		Location:     "Studio 3",
		Capacity:     capacity,
		Status:       models.EventStatusPublished,
	}
}

func newTestRegistration(userID string) *models.Registration {
	return &models.Registration{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   "Test User",
		Email:  userID + "@example.com",
	}
}

func TestMemoryStoresShareOneState(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	event := newTestEvent(5)
	require.NoError(t, repos.Events.Create(ctx, event))

	reg := newTestRegistration("user-1")
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, reg))
	_, err := repos.Attendance.Mark(ctx, reg.ID, models.AttendancePresent, "admin-1", "")
	require.NoError(t, err)

	// Each store view resolves the same-named lookups against its own
	// entity over the shared state.
	gotEvent, err := repos.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotEvent.Registered)
	assert.Equal(t, 1, gotEvent.Attended)

	gotReg, err := repos.Registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusAttended, gotReg.Status)

	regs, err := repos.Registrations.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 1)

	records, err := repos.Attendance.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMemoryRegisterSetsCountersAndPayment(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	event := newTestEvent(5)
	event.Price = 1500
	require.NoError(t, repos.Events.Create(ctx, event))

	reg := newTestRegistration("user-1")
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, reg))

	assert.Equal(t, models.RegistrationStatusRegistered, reg.Status)
	assert.Equal(t, models.PaymentStatusPending, reg.PaymentStatus)
	assert.False(t, reg.RegisteredAt.IsZero())

	stored, err := repos.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Registered)
	assert.Equal(t, 0, stored.Attended)
}

func TestMemoryRegisterUnknownEvent(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	err := repos.Registrations.Register(ctx, "missing", newTestRegistration("user-1"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryLatestForUser(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	event := newTestEvent(5)
	require.NoError(t, repos.Events.Create(ctx, event))

	none, err := repos.Registrations.LatestForUser(ctx, event.ID, "user-1")
	require.NoError(t, err)
	assert.Nil(t, none)

	first := newTestRegistration("user-1")
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, first))
	_, err = repos.Registrations.Cancel(ctx, first.ID)
	require.NoError(t, err)

	second := newTestRegistration("user-1")
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, second))

	latest, err := repos.Registrations.LatestForUser(ctx, event.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, models.RegistrationStatusRegistered, latest.Status)
}

func TestMemoryListByEventNewestFirst(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	event := newTestEvent(5)
	require.NoError(t, repos.Events.Create(ctx, event))

	first := newTestRegistration("user-1")
	second := newTestRegistration("user-2")
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, first))
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, second))

	regs, err := repos.Registrations.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, second.ID, regs[0].ID)
	assert.Equal(t, first.ID, regs[1].ID)
}

func TestMemoryDeleteCascades(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	event := newTestEvent(5)
	require.NoError(t, repos.Events.Create(ctx, event))

	reg := newTestRegistration("user-1")
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, reg))
	_, err := repos.Attendance.Mark(ctx, reg.ID, models.AttendancePresent, "admin-1", "")
	require.NoError(t, err)

	require.NoError(t, repos.Events.Delete(ctx, event.ID))

	_, err = repos.Events.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repos.Registrations.GetByID(ctx, reg.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, repos.Events.Delete(ctx, event.ID), apperrors.ErrNotFound)
}

func TestMemoryUpdateRejectsCapacityBelowRegistered(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	event := newTestEvent(3)
	require.NoError(t, repos.Events.Create(ctx, event))
	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Registrations.Register(ctx, event.ID, newTestRegistration(uuid.NewString())))
	}

	smaller := 2
	_, err := repos.Events.Update(ctx, event.ID, models.UpdateEventRequest{Capacity: &smaller})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	larger := 10
	updated, err := repos.Events.Update(ctx, event.ID, models.UpdateEventRequest{Capacity: &larger})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Capacity)
	assert.Equal(t, 3, updated.Registered)
}

func TestMemoryRecount(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	event := newTestEvent(5)
	require.NoError(t, repos.Events.Create(ctx, event))

	active := newTestRegistration("user-1")
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, active))
	cancelled := newTestRegistration("user-2")
	require.NoError(t, repos.Registrations.Register(ctx, event.ID, cancelled))
	_, err := repos.Registrations.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)
	_, err = repos.Attendance.Mark(ctx, active.ID, models.AttendancePresent, "admin-1", "")
	require.NoError(t, err)

	counts, err := repos.Events.Recount(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, counts.InSync())
	assert.Equal(t, 1, counts.DerivedRegistered)
	assert.Equal(t, 1, counts.DerivedAttended)
}

func TestMemoryCompletePast(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	past := newTestEvent(5)
	past.StartsAt = time.Now().Add(-3 * time.Hour)
	past.EndsAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repos.Events.Create(ctx, past))

	upcoming := newTestEvent(5)
	require.NoError(t, repos.Events.Create(ctx, upcoming))

	draft := newTestEvent(5)
	draft.StartsAt = past.StartsAt
	draft.EndsAt = past.EndsAt
	draft.Status = models.EventStatusDraft
	require.NoError(t, repos.Events.Create(ctx, draft))

	count, err := repos.Events.CompletePast(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	completed, err := repos.Events.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCompleted, completed.Status)

	untouched, err := repos.Events.GetByID(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusPublished, untouched.Status)
}

func TestMemoryListFilters(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	yoga := newTestEvent(5)
	yoga.Title = "Sunrise Yoga"
	require.NoError(t, repos.Events.Create(ctx, yoga))

	run := newTestEvent(5)
	run.Title = "City Run"
	run.Category = "running"
	run.Featured = true
	require.NoError(t, repos.Events.Create(ctx, run))

	byCategory, err := repos.Events.List(ctx, models.EventFilter{Category: "running"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, run.ID, byCategory[0].ID)

	featured := true
	byFeatured, err := repos.Events.List(ctx, models.EventFilter{Featured: &featured})
	require.NoError(t, err)
	require.Len(t, byFeatured, 1)

	byQuery, err := repos.Events.List(ctx, models.EventFilter{Query: "yoga"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, yoga.ID, byQuery[0].ID)
}
