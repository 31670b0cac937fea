package domain

import "time"

// AccountStatus represents lifecycle states for an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusBanned   AccountStatus = "BANNED"
)

// AccountRole differentiates customers from back-office admins.
type AccountRole string

const (
	RoleUser  AccountRole = "USER"
	RoleAdmin AccountRole = "ADMIN"
)

// Account is the user record behind customers, drivers and admins.
// The disciplinary engine is the only writer that moves Status into or
// out of INACTIVE/BANNED.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AccountRole
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
