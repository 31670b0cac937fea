package domain

import "time"

// DisputeStatus enumerates lifecycle states for a dispute.
type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "OPEN"
	DisputeStatusInReview DisputeStatus = "IN_REVIEW"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
)

// Dispute is a complaint attached to exactly one booking. The
// disciplinary engine only counts disputes; it never mutates them.
type Dispute struct {
	ID          string
	BookingID   string
	DriverID    string
	RaisedByID  string
	Subject     string
	Description string
	Status      DisputeStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
