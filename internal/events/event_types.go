package events

import (
	"time"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDisputeCreated     EventType = "dispute_created"
	EventWarningIssued      EventType = "warning_issued"
	EventSanctionScheduled  EventType = "sanction_scheduled"
	EventSanctionPaused     EventType = "sanction_paused"
	EventSanctionApplied    EventType = "sanction_applied"
	EventSanctionResumed    EventType = "sanction_resumed"
	EventSanctionEnded      EventType = "sanction_ended"
	EventDriverBanned       EventType = "driver_banned"
	EventDriverReinstated   EventType = "driver_reinstated"
	EventBookingHoldExpired EventType = "booking_hold_expired"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	DriverID  string      `json:"driver_id,omitempty"`
	AccountID string      `json:"account_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DisputeCreatedPayload payload.
type DisputeCreatedPayload struct {
	DisputeID  string `json:"dispute_id"`
	BookingID  string `json:"booking_id"`
	RaisedByID string `json:"raised_by_id"`
}

// WarningIssuedPayload payload.
type WarningIssuedPayload struct {
	ActionID     string    `json:"action_id"`
	DisputeCount int       `json:"dispute_count"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
}

// SanctionScheduledPayload payload.
type SanctionScheduledPayload struct {
	ActionID       string              `json:"action_id"`
	ActionType     domain.SanctionType `json:"action_type"`
	SuspensionDays *int                `json:"suspension_days,omitempty"`
	DisputeCount   int                 `json:"dispute_count"`
	Held           bool                `json:"held"`
	BlockingTripID *string             `json:"blocking_trip_id,omitempty"`
}

// SanctionPausedPayload payload.
type SanctionPausedPayload struct {
	ActionID  string `json:"action_id"`
	BookingID string `json:"booking_id"`
}

// SanctionAppliedPayload payload.
type SanctionAppliedPayload struct {
	ActionID     string              `json:"action_id"`
	ActionType   domain.SanctionType `json:"action_type"`
	ScheduledEnd *time.Time          `json:"scheduled_end,omitempty"`
}

// SanctionResumedPayload payload.
type SanctionResumedPayload struct {
	ActionID  string `json:"action_id"`
	BookingID string `json:"booking_id"`
}

// SanctionEndedPayload payload.
type SanctionEndedPayload struct {
	ActionID     string              `json:"action_id"`
	ActionType   domain.SanctionType `json:"action_type"`
	ServedPaused bool                `json:"served_paused"`
}

// DriverReinstatedPayload payload.
type DriverReinstatedPayload struct {
	ActionID string `json:"action_id"`
}

// BookingHoldExpiredPayload payload.
type BookingHoldExpiredPayload struct {
	BookingID string `json:"booking_id"`
	ListingID string `json:"listing_id"`
	RenterID  string `json:"renter_id"`
}
