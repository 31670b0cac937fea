package dto

import (
	"time"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// ManualSuspendRequest payload.
type ManualSuspendRequest struct {
	Days   int    `json:"days"`
	Reason string `json:"reason"`
}

// ManualBanRequest payload.
type ManualBanRequest struct {
	Reason string `json:"reason"`
}

// SanctionResponse response.
type SanctionResponse struct {
	ID             string               `json:"id"`
	ActionType     domain.SanctionType  `json:"action_type"`
	State          domain.SanctionState `json:"state"`
	DisputeCount   int                  `json:"dispute_count"`
	SuspensionDays *int                 `json:"suspension_days,omitempty"`
	ScheduledStart *time.Time           `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time           `json:"scheduled_end,omitempty"`
	ActualStart    *time.Time           `json:"actual_start,omitempty"`
	ActualEnd      *time.Time           `json:"actual_end,omitempty"`
	IsPaused       bool                 `json:"is_paused"`
	PauseReason    *string              `json:"pause_reason,omitempty"`
	Reason         *string              `json:"reason,omitempty"`
	PeriodStart    time.Time            `json:"period_start"`
	PeriodEnd      time.Time            `json:"period_end"`
	CreatedAt      time.Time            `json:"created_at"`
}

// ListingResponse response.
type ListingResponse struct {
	ID          string    `json:"id"`
	DriverID    string    `json:"driver_id"`
	Title       string    `json:"title"`
	PlateNumber string    `json:"plate_number"`
	DailyRate   int64     `json:"daily_rate"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromListing maps a domain listing.
func FromListing(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		DriverID:    l.DriverID,
		Title:       l.Title,
		PlateNumber: l.PlateNumber,
		DailyRate:   l.DailyRate,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
	}
}

// FromAction maps a domain disciplinary action.
func FromAction(a *domain.DisciplinaryAction) SanctionResponse {
	return SanctionResponse{
		ID:             a.ID,
		ActionType:     a.ActionType,
		State:          a.State(),
		DisputeCount:   a.DisputeCount,
		SuspensionDays: a.SuspensionDays,
		ScheduledStart: a.ScheduledStart,
		ScheduledEnd:   a.ScheduledEnd,
		ActualStart:    a.ActualStart,
		ActualEnd:      a.ActualEnd,
		IsPaused:       a.IsPaused,
		PauseReason:    a.PauseReason,
		Reason:         a.Reason,
		PeriodStart:    a.PeriodStart,
		PeriodEnd:      a.PeriodEnd,
		CreatedAt:      a.CreatedAt,
	}
}
