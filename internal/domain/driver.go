package domain

import "time"

// Driver is a service provider renting out vehicle listings.
// The engine mutates only CurrentSuspensionID and LastWarningAt; the
// rest belongs to the account subsystem.
type Driver struct {
	ID                  string
	AccountID           string
	IsVerified          bool
	CurrentSuspensionID *string
	LastWarningAt       *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
