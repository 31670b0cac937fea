package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	clockpkg "github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/clock"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/events"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
	apperrors "github.com/AmmarQasmi/TripVerse-Backend-sub000/pkg/util"
)

// BookingService drives the trip transitions the disciplinary engine
// cares about: a trip starting holds pending enforcement, a trip
// completing releases it. It also releases expired booking holds on
// the fast sweep.
type BookingService struct {
	bookings   repository.BookingRepository
	engine     *DisciplineService
	dispatcher events.Dispatcher
	clock      clockpkg.Clock
	logger     *zap.Logger
}

// NewBookingService constructs the service.
func NewBookingService(bookings repository.BookingRepository, engine *DisciplineService, dispatcher events.Dispatcher, clk clockpkg.Clock, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings:   bookings,
		engine:     engine,
		dispatcher: dispatcher,
		clock:      clk,
		logger:     logger,
	}
}

// StartTrip moves a confirmed booking to IN_PROGRESS and pauses any
// pending sanction against the driver.
func (s *BookingService) StartTrip(ctx context.Context, renterID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != renterID {
		return nil, apperrors.NewForbidden("booking belongs to another renter")
	}

	moved, err := s.bookings.SetStatusIf(ctx, bookingID, domain.BookingStatusConfirmed, domain.BookingStatusInProgress)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperrors.NewConflict("booking cannot start in current status", map[string]any{
			"status": booking.Status,
		})
	}
	booking.Status = domain.BookingStatusInProgress

	if err := s.engine.PauseSuspensionIfActiveRide(ctx, booking.DriverID, booking.ID); err != nil {
		s.logger.Error("failed to hold sanction for started trip",
			zap.String("driver_id", booking.DriverID),
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
	return booking, nil
}

// CompleteTrip moves an in-progress booking to COMPLETED and resumes
// any sanction held for it.
func (s *BookingService) CompleteTrip(ctx context.Context, renterID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != renterID {
		return nil, apperrors.NewForbidden("booking belongs to another renter")
	}

	moved, err := s.bookings.SetStatusIf(ctx, bookingID, domain.BookingStatusInProgress, domain.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperrors.NewConflict("booking cannot complete in current status", map[string]any{
			"status": booking.Status,
		})
	}
	booking.Status = domain.BookingStatusCompleted

	if err := s.engine.ResumeSuspensionAfterRide(ctx, booking.DriverID, booking.ID); err != nil {
		// The sanction stays paused; the next sweep will not pick it up
		// until a matching resume, so surface this loudly.
		s.logger.Error("failed to resume sanction after trip",
			zap.String("driver_id", booking.DriverID),
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
	return booking, nil
}

// ExpireHolds cancels PENDING bookings whose hold lapsed. Sweep entry
// point; idempotent.
func (s *BookingService) ExpireHolds(ctx context.Context) (int, error) {
	cancelled, err := s.bookings.CancelExpiredHolds(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	for i := range cancelled {
		booking := &cancelled[i]
		s.publish(ctx, events.Event{
			Type:     events.EventBookingHoldExpired,
			DriverID: booking.DriverID,
			Payload: events.BookingHoldExpiredPayload{
				BookingID: booking.ID,
				ListingID: booking.ListingID,
				RenterID:  booking.RenterID,
			},
		})
	}
	return len(cancelled), nil
}

func (s *BookingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
