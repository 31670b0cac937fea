package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisciplinaryActionState(t *testing.T) {
	now := time.Now()

	var action DisciplinaryAction
	assert.Equal(t, SanctionStateScheduled, action.State())

	action.IsPaused = true
	assert.Equal(t, SanctionStatePaused, action.State())

	action.ActualStart = &now
	assert.Equal(t, SanctionStateActive, action.State())

	action.ActualEnd = &now
	assert.Equal(t, SanctionStateEnded, action.State())
	assert.False(t, action.Open())
}

func TestPauseReasonRoundTrip(t *testing.T) {
	reason := PauseReasonForBooking("booking-42")
	assert.Equal(t, "active_booking:booking-42", reason)

	bookingID, ok := BookingFromPauseReason(reason)
	assert.True(t, ok)
	assert.Equal(t, "booking-42", bookingID)

	_, ok = BookingFromPauseReason("manual_hold")
	assert.False(t, ok)
}
