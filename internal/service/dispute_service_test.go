package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/events"
)

func newDisputeService(f *engineFixture) *DisputeService {
	return NewDisputeService(f.disputes, f.bookings, f.engine, f.events, f.clk, zap.NewNop())
}

func TestDisputeCreate(t *testing.T) {
	f := newEngineFixture(t)
	f.addBooking("booking-1", domain.BookingStatusCompleted)
	svc := newDisputeService(f)

	dispute, err := svc.Create(context.Background(), testRenterID, DisputeCreateInput{
		BookingID:   "booking-1",
		Subject:     "  vehicle was dirty ",
		Description: "arrived with trash in the back seat",
	})
	require.NoError(t, err)

	assert.Equal(t, testDriverID, dispute.DriverID)
	assert.Equal(t, "vehicle was dirty", dispute.Subject)
	assert.Equal(t, domain.DisputeStatusOpen, dispute.Status)
	assert.Len(t, f.events.ofType(events.EventDisputeCreated), 1)
}

func TestDisputeCreate_RejectsForeignBooking(t *testing.T) {
	f := newEngineFixture(t)
	f.addBooking("booking-1", domain.BookingStatusCompleted)
	svc := newDisputeService(f)

	_, err := svc.Create(context.Background(), "someone-else", DisputeCreateInput{
		BookingID: "booking-1",
		Subject:   "late",
	})
	assert.Error(t, err)
	assert.Empty(t, f.disputes.disputes)
}

func TestDisputeCreate_RejectsPendingBooking(t *testing.T) {
	f := newEngineFixture(t)
	f.addBooking("booking-1", domain.BookingStatusPending)
	svc := newDisputeService(f)

	_, err := svc.Create(context.Background(), testRenterID, DisputeCreateInput{
		BookingID: "booking-1",
		Subject:   "late",
	})
	assert.Error(t, err)
}

func TestDisputeCreate_TriggersEscalation(t *testing.T) {
	f := newEngineFixture(t)
	f.addBooking("booking-1", domain.BookingStatusCompleted)
	svc := newDisputeService(f)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), testRenterID, DisputeCreateInput{
			BookingID: "booking-1",
			Subject:   "no show",
		})
		require.NoError(t, err)
	}

	require.Len(t, f.actions.list, 1)
	assert.Equal(t, domain.SanctionWarning, f.actions.list[0].ActionType)
}

func newBookingService(f *engineFixture) *BookingService {
	return NewBookingService(f.bookings, f.engine, f.events, f.clk, zap.NewNop())
}

func TestStartTrip_HoldsPendingSanction(t *testing.T) {
	f := newEngineFixture(t)
	svc := newBookingService(f)

	// Schedule a sanction, then put it back to pending-unpaused so the
	// trip start is what pauses it.
	f.raiseDisputes(t, 5)
	action := f.latestAction(t)
	action.ActualStart = nil
	f.accounts.accounts[testAccountID].Status = domain.AccountStatusActive

	f.addBooking("booking-9", domain.BookingStatusConfirmed)
	booking, err := svc.StartTrip(context.Background(), testRenterID, "booking-9")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusInProgress, booking.Status)

	assert.True(t, action.IsPaused)
	require.NotNil(t, action.PauseReason)
	assert.Equal(t, domain.PauseReasonForBooking("booking-9"), *action.PauseReason)
	assert.Len(t, f.events.ofType(events.EventSanctionPaused), 1)
}

func TestStartTrip_RejectsUnconfirmedBooking(t *testing.T) {
	f := newEngineFixture(t)
	svc := newBookingService(f)
	f.addBooking("booking-9", domain.BookingStatusPending)

	_, err := svc.StartTrip(context.Background(), testRenterID, "booking-9")
	assert.Error(t, err)
}

func TestCompleteTrip_ResumesSanction(t *testing.T) {
	f := newEngineFixture(t)
	svc := newBookingService(f)
	f.addBooking("booking-9", domain.BookingStatusInProgress)
	f.raiseDisputes(t, 5)
	require.True(t, f.latestAction(t).IsPaused)

	// Pause reason points at booking-9; completing it enforces now.
	_, err := svc.CompleteTrip(context.Background(), testRenterID, "booking-9")
	require.NoError(t, err)

	action := f.latestAction(t)
	assert.NotNil(t, action.ActualStart)
	assert.Equal(t, domain.AccountStatusInactive, f.accountStatus(t))
}

func TestExpireHolds(t *testing.T) {
	f := newEngineFixture(t)
	svc := newBookingService(f)

	expired := f.clk.Now().Add(-time.Minute)
	live := f.clk.Now().Add(time.Hour)
	f.addBooking("booking-1", domain.BookingStatusPending)
	f.bookings.bookings["booking-1"].HoldExpiresAt = &expired
	f.addBooking("booking-2", domain.BookingStatusPending)
	f.bookings.bookings["booking-2"].HoldExpiresAt = &live

	count, err := svc.ExpireHolds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, domain.BookingStatusCancelled, f.bookings.bookings["booking-1"].Status)
	assert.Equal(t, domain.BookingStatusPending, f.bookings.bookings["booking-2"].Status)
	assert.Len(t, f.events.ofType(events.EventBookingHoldExpired), 1)

	// Second sweep finds nothing.
	count, err = svc.ExpireHolds(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
