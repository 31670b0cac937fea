package dto

import (
	"time"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse response.
type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	AccountID string             `json:"account_id"`
	Role      domain.AccountRole `json:"role"`
}
