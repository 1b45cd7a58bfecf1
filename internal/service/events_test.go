package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellhub/internal/apperrors"
	"wellhub/internal/models"
)

func TestCreateEventValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	now := time.Now()

	cases := []struct {
		name string
		req  models.CreateEventRequest
	}{
		{"missing title", models.CreateEventRequest{
			Capacity: 10, StartsAt: now, EndsAt: now.Add(time.Hour),
		}},
		{"zero capacity", models.CreateEventRequest{
			Title: "Yoga", StartsAt: now, EndsAt: now.Add(time.Hour),
		}},
		{"negative price", models.CreateEventRequest{
			Title: "Yoga", Capacity: 10, Price: -1, StartsAt: now, EndsAt: now.Add(time.Hour),
		}},
		{"missing times", models.CreateEventRequest{
			Title: "Yoga", Capacity: 10,
		}},
		{"ends before starts", models.CreateEventRequest{
			Title: "Yoga", Capacity: 10, StartsAt: now.Add(time.Hour), EndsAt: now,
		}},
		{"invalid status", models.CreateEventRequest{
			Title: "Yoga", Capacity: 10, StartsAt: now, EndsAt: now.Add(time.Hour),
			Status: "archived",
		}},
		{"invalid location type", models.CreateEventRequest{
			Title: "Yoga", Capacity: 10, StartsAt: now, EndsAt: now.Add(time.Hour),
			LocationType: "metaverse",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Events.Create(ctx, &tc.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCreateEventDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	now := time.Now()

	event, err := svc.Events.Create(ctx, &models.CreateEventRequest{
		Title:    "Yoga",
		Capacity: 10,
		StartsAt: now.Add(time.Hour),
		EndsAt:   now.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.EventStatusDraft, event.Status)
	assert.Equal(t, models.LocationPhysical, event.LocationType)
	assert.Equal(t, 0, event.Registered)
	assert.Equal(t, 0, event.Attended)
}

func TestUpdateEventValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	zero := 0
	_, err := svc.Events.Update(ctx, event.ID, &models.UpdateEventRequest{Capacity: &zero})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bad := models.EventStatus("archived")
	_, err = svc.Events.Update(ctx, event.ID, &models.UpdateEventRequest{Status: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	empty := ""
	_, err = svc.Events.Update(ctx, event.ID, &models.UpdateEventRequest{Title: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateEventKeepsCounters(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	_, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)

	title := "Renamed Session"
	updated, err := svc.Events.Update(ctx, event.ID, &models.UpdateEventRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Renamed Session", updated.Title)
	assert.Equal(t, 1, updated.Registered)
	assert.Equal(t, 0, updated.Attended)
}

func TestUpdateEventUnknown(t *testing.T) {
	svc := newTestServices()

	title := "Renamed"
	_, err := svc.Events.Update(context.Background(), "missing", &models.UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteEventCascades(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	reg, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)
	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendancePresent), "admin-1")
	require.NoError(t, err)

	require.NoError(t, svc.Events.Delete(ctx, event.ID))

	_, err = svc.Events.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = svc.Registrations.GetByID(ctx, reg.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, svc.Events.Delete(ctx, event.ID), apperrors.ErrNotFound)
}

func TestListEventsPaging(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()

	for i := 0; i < 5; i++ {
		createTestEvent(t, svc, 5, 0)
	}

	page1, err := svc.Events.List(ctx, models.EventFilter{Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, page1, 3)

	page2, err := svc.Events.List(ctx, models.EventFilter{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, page2, 2)
}

func TestRecountDetectsSync(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	reg, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)
	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendancePresent), "admin-1")
	require.NoError(t, err)

	counts, err := svc.Events.Recount(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, counts.InSync())
	assert.Equal(t, 1, counts.StoredRegistered)
	assert.Equal(t, 1, counts.StoredAttended)
}
