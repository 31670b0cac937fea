package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/auth"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/config"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
	apperrors "github.com/AmmarQasmi/TripVerse-Backend-sub000/pkg/util"
)

// AuthService registers accounts and issues access tokens.
type AuthService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a customer account. Admin accounts are provisioned
// out of band.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Account, error) {
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.AccountStatusActive,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies credentials and returns a signed token with its
// metadata.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Token, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return "", nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if account.Status == domain.AccountStatusBanned {
		return "", nil, apperrors.NewForbidden("account banned")
	}

	signed, expiresAt, err := s.tokens.GenerateToken(account.ID, account.Role)
	if err != nil {
		return "", nil, err
	}
	return signed, &domain.Token{
		AccountID: account.ID,
		Role:      account.Role,
		ExpiresAt: expiresAt,
		IssuedAt:  time.Now().UTC(),
	}, nil
}
