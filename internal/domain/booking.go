package domain

import "time"

// BookingStatus enumerates lifecycle states for a rental booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// Booking is a rental of a listing by a renter. DriverID is resolved
// through the listing; repositories populate it so callers never join
// by hand. PENDING bookings hold the listing until HoldExpiresAt.
type Booking struct {
	ID            string
	ListingID     string
	DriverID      string
	RenterID      string
	Status        BookingStatus
	StartDate     time.Time
	EndDate       time.Time
	HoldExpiresAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
