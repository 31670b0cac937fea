package domain

import (
	"fmt"
	"strings"
	"time"
)

// SanctionType enumerates disciplinary action kinds.
type SanctionType string

const (
	SanctionWarning    SanctionType = "WARNING"
	SanctionSuspension SanctionType = "SUSPENSION"
	SanctionBan        SanctionType = "BAN"
)

// SanctionState is the derived lifecycle tag for a disciplinary
// action. It is computed from the audit timestamps, never stored.
type SanctionState string

const (
	SanctionStateScheduled SanctionState = "SCHEDULED"
	SanctionStatePaused    SanctionState = "PAUSED"
	SanctionStateActive    SanctionState = "ACTIVE"
	SanctionStateEnded     SanctionState = "ENDED"
)

// DisciplinaryAction is the append-only record of a warning,
// suspension or ban issued against a driver. Null ActualStart means
// the action has not been enforced yet; ActualStart is never cleared
// once set.
type DisciplinaryAction struct {
	ID             string
	DriverID       string
	ActionType     SanctionType
	DisputeCount   int
	SuspensionDays *int
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	IsPaused       bool
	PauseReason    *string
	// Reason is set on manually issued actions only.
	Reason      *string
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
}

// State derives the lifecycle tag from the persisted timestamps.
func (a *DisciplinaryAction) State() SanctionState {
	switch {
	case a.ActualEnd != nil:
		return SanctionStateEnded
	case a.ActualStart != nil:
		return SanctionStateActive
	case a.IsPaused:
		return SanctionStatePaused
	default:
		return SanctionStateScheduled
	}
}

// Open reports whether the action still holds enforcement weight.
func (a *DisciplinaryAction) Open() bool {
	return a.ActualEnd == nil
}

const pauseReasonPrefix = "active_booking:"

// PauseReasonForBooking formats the pause reason referencing the trip
// that is blocking enforcement.
func PauseReasonForBooking(bookingID string) string {
	return fmt.Sprintf("%s%s", pauseReasonPrefix, bookingID)
}

// BookingFromPauseReason extracts the blocking booking id, if any.
func BookingFromPauseReason(reason string) (string, bool) {
	if !strings.HasPrefix(reason, pauseReasonPrefix) {
		return "", false
	}
	return strings.TrimPrefix(reason, pauseReasonPrefix), true
}
