package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellhub/internal/apperrors"
	"wellhub/internal/models"
)

// TestEventLifecycle walks a small event through its whole life: two users
// fill it, a third is turned away, a cancellation frees the seat for the
// third, attendance is marked with a correction, and the counters stay
// consistent with the rows throughout.
func TestEventLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 2, 0)

	regA, err := svc.Registrations.Register(ctx, event.ID, "user-a", registerReq("anna"))
	require.NoError(t, err)
	regB, err := svc.Registrations.Register(ctx, event.ID, "user-b", registerReq("ben"))
	require.NoError(t, err)

	// Event is full, the third user is rejected.
	_, err = svc.Registrations.Register(ctx, event.ID, "user-c", registerReq("cara"))
	require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)

	// A cancellation frees the seat and user C gets in.
	_, err = svc.Registrations.Cancel(ctx, regA.ID)
	require.NoError(t, err)
	regC, err := svc.Registrations.Register(ctx, event.ID, "user-c", registerReq("cara"))
	require.NoError(t, err)

	stored, err := svc.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Registered)

	// B shows up and is marked twice; the counter moves once.
	_, err = svc.Attendance.Mark(ctx, regB.ID, markReq(models.AttendancePresent), "admin-1")
	require.NoError(t, err)
	_, err = svc.Attendance.Mark(ctx, regB.ID, markReq(models.AttendancePresent), "admin-1")
	require.NoError(t, err)

	// C never shows.
	_, err = svc.Attendance.Mark(ctx, regC.ID, markReq(models.AttendanceAbsent), "admin-1")
	require.NoError(t, err)

	stored, err = svc.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Registered)
	assert.Equal(t, 1, stored.Attended)

	counts, err := svc.Events.Recount(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, counts.InSync())

	regs, err := svc.Registrations.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 3)

	records, err := svc.Attendance.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
