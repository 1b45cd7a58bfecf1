package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventIsFull(t *testing.T) {
	event := &Event{Capacity: 2, Registered: 1}
	assert.False(t, event.IsFull())
	assert.Equal(t, 1, event.Remaining())

	event.Registered = 2
	assert.True(t, event.IsFull())
	assert.Equal(t, 0, event.Remaining())
}

func TestPaymentStatusForPrice(t *testing.T) {
	assert.Equal(t, PaymentStatusPaid, PaymentStatusForPrice(0))
	assert.Equal(t, PaymentStatusPending, PaymentStatusForPrice(2500))
}

func TestRegistrationOutcome(t *testing.T) {
	assert.Equal(t, RegistrationStatusAttended, RegistrationOutcome(AttendancePresent))
	assert.Equal(t, RegistrationStatusAttended, RegistrationOutcome(AttendanceLate))
	assert.Equal(t, RegistrationStatusNoShow, RegistrationOutcome(AttendanceAbsent))
	assert.Equal(t, RegistrationStatusNoShow, RegistrationOutcome(AttendanceLeftEarly))
}

func TestRegistrationIsActive(t *testing.T) {
	cases := []struct {
		status RegistrationStatus
		active bool
	}{
		{RegistrationStatusRegistered, true},
		{RegistrationStatusAttended, true},
		{RegistrationStatusNoShow, false},
		{RegistrationStatusCancelled, false},
		{RegistrationStatusWaitlist, false},
	}

	for _, tc := range cases {
		reg := &Registration{Status: tc.status}
		assert.Equal(t, tc.active, reg.IsActive(), "status %s", tc.status)
		assert.Equal(t, tc.active, reg.HoldsSeat(), "status %s", tc.status)
	}
}

func TestRegistrationCanCancel(t *testing.T) {
	assert.True(t, (&Registration{Status: RegistrationStatusRegistered}).CanCancel())
	assert.True(t, (&Registration{Status: RegistrationStatusWaitlist}).CanCancel())
	assert.False(t, (&Registration{Status: RegistrationStatusAttended}).CanCancel())
	assert.False(t, (&Registration{Status: RegistrationStatusNoShow}).CanCancel())
	assert.False(t, (&Registration{Status: RegistrationStatusCancelled}).CanCancel())
}

func TestRegistrationCanMarkAttendance(t *testing.T) {
	assert.True(t, (&Registration{Status: RegistrationStatusRegistered}).CanMarkAttendance())
	assert.True(t, (&Registration{Status: RegistrationStatusAttended}).CanMarkAttendance())
	assert.True(t, (&Registration{Status: RegistrationStatusNoShow}).CanMarkAttendance())
	assert.False(t, (&Registration{Status: RegistrationStatusCancelled}).CanMarkAttendance())
	assert.False(t, (&Registration{Status: RegistrationStatusWaitlist}).CanMarkAttendance())
}

func TestAttendanceStatusValid(t *testing.T) {
	assert.True(t, AttendancePresent.Valid())
	assert.True(t, AttendanceLeftEarly.Valid())
	assert.False(t, AttendanceStatus("checked-in").Valid())
}

func TestEventCountsInSync(t *testing.T) {
	counts := &EventCounts{StoredRegistered: 3, DerivedRegistered: 3, StoredAttended: 1, DerivedAttended: 1}
	assert.True(t, counts.InSync())

	counts.DerivedAttended = 2
	assert.False(t, counts.InSync())
}
