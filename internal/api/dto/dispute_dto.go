package dto

import (
	"time"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// CreateDisputeRequest payload.
type CreateDisputeRequest struct {
	BookingID   string `json:"booking_id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// DisputeResponse response.
type DisputeResponse struct {
	ID        string               `json:"id"`
	BookingID string               `json:"booking_id"`
	Subject   string               `json:"subject"`
	Status    domain.DisputeStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// FromDispute maps a domain dispute.
func FromDispute(d *domain.Dispute) DisputeResponse {
	return DisputeResponse{
		ID:        d.ID,
		BookingID: d.BookingID,
		Subject:   d.Subject,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}
