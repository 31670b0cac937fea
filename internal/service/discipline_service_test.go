package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/events"
)

func TestOnDispute_WarnsAtThirdDispute(t *testing.T) {
	f := newEngineFixture(t)

	f.raiseDisputes(t, 2)
	assert.Empty(t, f.actions.list, "two disputes must not trigger anything")

	f.raiseDisputes(t, 1)

	require.Len(t, f.actions.list, 1)
	action := f.latestAction(t)
	assert.Equal(t, domain.SanctionWarning, action.ActionType)
	assert.Equal(t, 3, action.DisputeCount)
	assert.NotNil(t, f.drivers.drivers[testDriverID].LastWarningAt)
	assert.Equal(t, domain.AccountStatusActive, f.accountStatus(t))
	assert.Len(t, f.events.ofType(events.EventWarningIssued), 1)
}

func TestOnDispute_WarnsOncePerPeriod(t *testing.T) {
	f := newEngineFixture(t)

	f.raiseDisputes(t, 4)

	require.Len(t, f.actions.list, 1)
	assert.Equal(t, domain.SanctionWarning, f.actions.list[0].ActionType)
}

func TestOnDispute_ThreeDaySuspensionAppliedImmediately(t *testing.T) {
	f := newEngineFixture(t)

	f.raiseDisputes(t, 5)

	require.Len(t, f.actions.list, 2)
	action := f.latestAction(t)
	assert.Equal(t, domain.SanctionSuspension, action.ActionType)
	require.NotNil(t, action.SuspensionDays)
	assert.Equal(t, 3, *action.SuspensionDays)
	require.NotNil(t, action.ActualStart)
	require.NotNil(t, action.ScheduledEnd)
	assert.Equal(t, f.clk.Now().Add(72*time.Hour), *action.ScheduledEnd)
	assert.Equal(t, domain.SanctionStateActive, action.State())

	assert.Equal(t, domain.AccountStatusInactive, f.accountStatus(t))
	assert.Equal(t, 1, f.actions.listingsPulled[testDriverID])
	require.NotNil(t, f.drivers.drivers[testDriverID].CurrentSuspensionID)
	assert.Equal(t, action.ID, *f.drivers.drivers[testDriverID].CurrentSuspensionID)
	assert.Len(t, f.events.ofType(events.EventSanctionApplied), 1)
}

func TestOnDispute_SuspensionHeldWhileTripInProgress(t *testing.T) {
	f := newEngineFixture(t)
	f.addBooking("booking-7", domain.BookingStatusInProgress)

	f.raiseDisputes(t, 5)

	action := f.latestAction(t)
	require.Equal(t, domain.SanctionSuspension, action.ActionType)
	assert.True(t, action.IsPaused)
	assert.Nil(t, action.ActualStart)
	require.NotNil(t, action.PauseReason)
	assert.Equal(t, domain.PauseReasonForBooking("booking-7"), *action.PauseReason)
	assert.Equal(t, domain.SanctionStatePaused, action.State())

	// Driver keeps working until the trip ends.
	assert.Equal(t, domain.AccountStatusActive, f.accountStatus(t))
	assert.Zero(t, f.actions.listingsPulled[testDriverID])
}

func TestResumeSuspensionAfterRide_Applies(t *testing.T) {
	f := newEngineFixture(t)
	f.addBooking("booking-7", domain.BookingStatusInProgress)
	f.raiseDisputes(t, 5)

	f.bookings.bookings["booking-7"].Status = domain.BookingStatusCompleted
	f.clk.Advance(2 * time.Hour)

	err := f.engine.ResumeSuspensionAfterRide(context.Background(), testDriverID, "booking-7")
	require.NoError(t, err)

	action := f.latestAction(t)
	require.NotNil(t, action.ActualStart)
	assert.False(t, action.IsPaused)
	assert.Equal(t, domain.AccountStatusInactive, f.accountStatus(t))
	assert.Len(t, f.events.ofType(events.EventSanctionResumed), 1)
}

func TestResumeSuspensionAfterRide_WindowElapsedDuringPause(t *testing.T) {
	f := newEngineFixture(t)
	f.addBooking("booking-7", domain.BookingStatusInProgress)
	f.raiseDisputes(t, 5)

	f.bookings.bookings["booking-7"].Status = domain.BookingStatusCompleted
	f.clk.Advance(4 * 24 * time.Hour)

	err := f.engine.ResumeSuspensionAfterRide(context.Background(), testDriverID, "booking-7")
	require.NoError(t, err)

	action := f.latestAction(t)
	assert.Nil(t, action.ActualStart, "an overrun suspension is served without enforcement")
	require.NotNil(t, action.ActualEnd)
	assert.Equal(t, domain.SanctionStateEnded, action.State())
	assert.Equal(t, domain.AccountStatusActive, f.accountStatus(t))
	assert.Nil(t, f.drivers.drivers[testDriverID].CurrentSuspensionID)

	ended := f.events.ofType(events.EventSanctionEnded)
	require.Len(t, ended, 1)
	payload := ended[0].Payload.(events.SanctionEndedPayload)
	assert.True(t, payload.ServedPaused)
}

func TestOnDispute_HighCountStillStartsAtThreeDays(t *testing.T) {
	f := newEngineFixture(t)

	f.raiseDisputes(t, 7)

	action := f.latestAction(t)
	require.Equal(t, domain.SanctionSuspension, action.ActionType)
	require.NotNil(t, action.SuspensionDays)
	assert.Equal(t, 3, *action.SuspensionDays, "rungs are never skipped")
}

func TestOnDispute_NoEscalationWhileSanctionOpen(t *testing.T) {
	f := newEngineFixture(t)
	f.raiseDisputes(t, 5)
	require.Len(t, f.actions.list, 2)

	f.raiseDisputes(t, 3)

	assert.Len(t, f.actions.list, 2, "open sanction absorbs further disputes")
}

func TestEscalationLadder_FullClimb(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	// Disputes 1-5: warning at 3, 3-day suspension at 5.
	f.raiseDisputes(t, 5)
	threeDay := *f.latestAction(t)
	require.Equal(t, 3, *threeDay.SuspensionDays)

	// Suspension window elapses and the sweep ends it.
	f.clk.Advance(3*24*time.Hour + time.Minute)
	served, err := f.actions.GetByID(ctx, threeDay.ID)
	require.NoError(t, err)
	require.NoError(t, f.engine.CompleteSanction(ctx, served))
	assert.Equal(t, domain.AccountStatusActive, f.accountStatus(t))

	// Disputes 6-7: second suspension escalates to 7 days.
	f.raiseDisputes(t, 2)
	sevenDay := *f.latestAction(t)
	require.Equal(t, domain.SanctionSuspension, sevenDay.ActionType)
	require.NotNil(t, sevenDay.SuspensionDays)
	assert.Equal(t, 7, *sevenDay.SuspensionDays)
	assert.Equal(t, domain.AccountStatusInactive, f.accountStatus(t))

	f.clk.Advance(7*24*time.Hour + time.Minute)
	served, err = f.actions.GetByID(ctx, sevenDay.ID)
	require.NoError(t, err)
	require.NoError(t, f.engine.CompleteSanction(ctx, served))
	assert.Equal(t, domain.AccountStatusActive, f.accountStatus(t))

	// Dispute 8: past the 7-day rung the driver is banned.
	f.raiseDisputes(t, 1)
	ban := f.latestAction(t)
	assert.Equal(t, domain.SanctionBan, ban.ActionType)
	assert.Equal(t, domain.AccountStatusBanned, f.accountStatus(t))
	assert.Len(t, f.events.ofType(events.EventDriverBanned), 1)
}

func TestApplySanction_Idempotent(t *testing.T) {
	f := newEngineFixture(t)
	f.raiseDisputes(t, 5)
	action := f.latestAction(t)
	require.NotNil(t, action.ActualStart)
	firstStart := *action.ActualStart

	f.clk.Advance(time.Hour)
	applied, err := f.engine.ApplySanction(context.Background(), testDriverID, action.ID)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, firstStart, *action.ActualStart)
	assert.Len(t, f.events.ofType(events.EventSanctionApplied), 1)
}

func TestCompleteSanction_Idempotent(t *testing.T) {
	f := newEngineFixture(t)
	f.raiseDisputes(t, 5)
	action := *f.latestAction(t)

	f.clk.Advance(3*24*time.Hour + time.Minute)
	ctx := context.Background()
	served, err := f.actions.GetByID(ctx, action.ID)
	require.NoError(t, err)
	require.NoError(t, f.engine.CompleteSanction(ctx, served))
	require.NoError(t, f.engine.CompleteSanction(ctx, served))

	assert.Len(t, f.events.ofType(events.EventSanctionEnded), 1)
	assert.Equal(t, domain.AccountStatusActive, f.accountStatus(t))
}

func TestPauseSuspensionIfActiveRide_NoPendingAction(t *testing.T) {
	f := newEngineFixture(t)

	err := f.engine.PauseSuspensionIfActiveRide(context.Background(), testDriverID, "booking-1")
	require.NoError(t, err)
	assert.Empty(t, f.actions.list)
}

func TestManualSuspend(t *testing.T) {
	f := newEngineFixture(t)

	action, err := f.engine.ManualSuspend(context.Background(), testDriverID, 5, "repeat complaints")
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, domain.SanctionSuspension, action.ActionType)
	require.NotNil(t, action.SuspensionDays)
	assert.Equal(t, 5, *action.SuspensionDays)
	assert.Equal(t, 0, action.DisputeCount)
	require.NotNil(t, action.Reason)
	assert.Equal(t, "repeat complaints", *action.Reason)
	assert.Equal(t, domain.AccountStatusInactive, f.accountStatus(t))
}

func TestManualSuspend_RejectsNonPositiveDays(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.ManualSuspend(context.Background(), testDriverID, 0, "")
	assert.Error(t, err)
}

func TestManualSuspend_ConflictsWithOpenSanction(t *testing.T) {
	f := newEngineFixture(t)
	f.raiseDisputes(t, 5)

	_, err := f.engine.ManualSuspend(context.Background(), testDriverID, 5, "")
	assert.Error(t, err)
}

func TestManualBan(t *testing.T) {
	f := newEngineFixture(t)

	action, err := f.engine.ManualBan(context.Background(), testDriverID, "fraudulent listings")
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, domain.SanctionBan, action.ActionType)
	assert.Equal(t, domain.AccountStatusBanned, f.accountStatus(t))
}

func TestReinstate(t *testing.T) {
	f := newEngineFixture(t)
	f.raiseDisputes(t, 5)
	require.Equal(t, domain.AccountStatusInactive, f.accountStatus(t))

	err := f.engine.Reinstate(context.Background(), testDriverID)
	require.NoError(t, err)

	assert.Equal(t, domain.AccountStatusActive, f.accountStatus(t))
	assert.Nil(t, f.drivers.drivers[testDriverID].CurrentSuspensionID)
	assert.Len(t, f.events.ofType(events.EventDriverReinstated), 1)
}

func TestReinstate_BannedDriver(t *testing.T) {
	f := newEngineFixture(t)
	_, err := f.engine.ManualBan(context.Background(), testDriverID, "")
	require.NoError(t, err)

	require.NoError(t, f.engine.Reinstate(context.Background(), testDriverID))
	assert.Equal(t, domain.AccountStatusActive, f.accountStatus(t))
}

func TestReinstate_NoOpenSanction(t *testing.T) {
	f := newEngineFixture(t)

	err := f.engine.Reinstate(context.Background(), testDriverID)
	assert.Error(t, err)
}

func TestSanctionHistory(t *testing.T) {
	f := newEngineFixture(t)
	f.raiseDisputes(t, 5)

	history, err := f.engine.SanctionHistory(context.Background(), testDriverID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.SanctionSuspension, history[0].ActionType)
	assert.Equal(t, domain.SanctionWarning, history[1].ActionType)
}

func TestNewPeriodAfterExpiry_LadderRestarts(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	f.raiseDisputes(t, 5)
	threeDay := *f.latestAction(t)

	f.clk.Advance(3*24*time.Hour + time.Minute)
	served, err := f.actions.GetByID(ctx, threeDay.ID)
	require.NoError(t, err)
	require.NoError(t, f.engine.CompleteSanction(ctx, served))

	// Four months later the window has rolled over; the old record no
	// longer counts against the driver.
	f.clk.Advance(4 * 30 * 24 * time.Hour)
	f.raiseDisputes(t, 3)

	action := f.latestAction(t)
	assert.Equal(t, domain.SanctionWarning, action.ActionType)
	assert.Equal(t, 3, action.DisputeCount)
}
