package domain

import "time"

// Listing is a vehicle offered for rental by a driver.
type Listing struct {
	ID          string
	DriverID    string
	Title       string
	PlateNumber string
	DailyRate   int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
