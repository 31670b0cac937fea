package dto

import (
	"time"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// BookingResponse response.
type BookingResponse struct {
	ID        string               `json:"id"`
	ListingID string               `json:"listing_id"`
	Status    domain.BookingStatus `json:"status"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
}

// FromBooking maps a domain booking.
func FromBooking(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		ListingID: b.ListingID,
		Status:    b.Status,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
	}
}
