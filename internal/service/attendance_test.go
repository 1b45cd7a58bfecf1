package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellhub/internal/apperrors"
	"wellhub/internal/models"
)

func markReq(status models.AttendanceStatus) *models.MarkAttendanceRequest {
	return &models.MarkAttendanceRequest{Status: status}
}

func eventAttended(t *testing.T, svc *Services, eventID string) int {
	t.Helper()
	event, err := svc.Events.GetByID(context.Background(), eventID)
	require.NoError(t, err)
	return event.Attended
}

func TestMarkAttendancePresent(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	reg, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)

	record, err := svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendancePresent), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, record.Status)
	assert.Equal(t, "admin-1", record.MarkedBy)
	assert.NotNil(t, record.CheckInAt)

	updated, err := svc.Registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusAttended, updated.Status)
	require.NotNil(t, updated.AttendanceMarkedAt)
	require.NotNil(t, updated.AttendanceMarkedBy)
	assert.Equal(t, "admin-1", *updated.AttendanceMarkedBy)

	assert.Equal(t, 1, eventAttended(t, svc, event.ID))
}

func TestMarkAttendanceAbsent(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	reg, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)

	record, err := svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendanceAbsent), "admin-1")
	require.NoError(t, err)
	assert.Nil(t, record.CheckInAt)

	updated, err := svc.Registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusNoShow, updated.Status)

	assert.Equal(t, 0, eventAttended(t, svc, event.ID))
}

func TestMarkAttendanceTwiceCountsOnce(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	reg, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendancePresent), "admin-1")
	require.NoError(t, err)
	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendanceLate), "admin-1")
	require.NoError(t, err)

	assert.Equal(t, 1, eventAttended(t, svc, event.ID))

	records, err := svc.Attendance.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMarkAttendanceCorrectionMovesCounter(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	reg, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendancePresent), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 1, eventAttended(t, svc, event.ID))

	// Correcting to absent flips attended back off.
	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendanceAbsent), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 0, eventAttended(t, svc, event.ID))

	updated, err := svc.Registrations.GetByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusNoShow, updated.Status)

	// And back again.
	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendanceLate), "admin-2")
	require.NoError(t, err)
	assert.Equal(t, 1, eventAttended(t, svc, event.ID))

	counts, err := svc.Events.Recount(ctx, event.ID)
	require.NoError(t, err)
	assert.True(t, counts.InSync())
}

func TestMarkAttendanceInvalidStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	reg, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq("checked-in"), "admin-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMarkAttendanceOnCancelledRegistration(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 5, 0)

	reg, err := svc.Registrations.Register(ctx, event.ID, "user-1", registerReq("alice"))
	require.NoError(t, err)
	_, err = svc.Registrations.Cancel(ctx, reg.ID)
	require.NoError(t, err)

	_, err = svc.Attendance.Mark(ctx, reg.ID, markReq(models.AttendancePresent), "admin-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Equal(t, 0, eventAttended(t, svc, event.ID))
}

func TestMarkAttendanceUnknownRegistration(t *testing.T) {
	svc := newTestServices()

	_, err := svc.Attendance.Mark(context.Background(), "missing", markReq(models.AttendancePresent), "admin-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAttendedNeverExceedsRegistered(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices()
	event := createTestEvent(t, svc, 3, 0)

	var regIDs []string
	for _, user := range []string{"user-1", "user-2", "user-3"} {
		reg, err := svc.Registrations.Register(ctx, event.ID, user, registerReq(user))
		require.NoError(t, err)
		regIDs = append(regIDs, reg.ID)
	}

	for _, id := range regIDs {
		_, err := svc.Attendance.Mark(ctx, id, markReq(models.AttendancePresent), "admin-1")
		require.NoError(t, err)
		_, err = svc.Attendance.Mark(ctx, id, markReq(models.AttendancePresent), "admin-1")
		require.NoError(t, err)
	}

	stored, err := svc.Events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Registered)
	assert.Equal(t, 3, stored.Attended)
	assert.LessOrEqual(t, stored.Attended, stored.Registered)
}
