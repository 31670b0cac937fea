package service

import (
	"context"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
)

// TripGuard answers whether a driver currently has an in-progress
// trip. Read-only against the booking store; the engine never mutates
// booking state.
type TripGuard struct {
	bookings repository.BookingRepository
}

// NewTripGuard constructs the guard.
func NewTripGuard(bookings repository.BookingRepository) *TripGuard {
	return &TripGuard{bookings: bookings}
}

// HasActiveTrip reports an in-progress booking on any of the driver's
// listings, along with its id.
func (g *TripGuard) HasActiveTrip(ctx context.Context, driverID string) (bool, string, error) {
	booking, err := g.bookings.FindInProgressByDriver(ctx, driverID)
	if err != nil {
		return false, "", err
	}
	if booking == nil {
		return false, "", nil
	}
	return true, booking.ID, nil
}
