package domain

import "time"

// Token represents issued authentication token metadata.
type Token struct {
	AccountID string
	Role      AccountRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
