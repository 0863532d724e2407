package service

import (
	"context"
	"time"

	"auth_portal/internal/models"
	"auth_portal/internal/repository"
)

// Authorization covers registration, login and token lifecycle.
type Authorization interface {
	Register(ctx context.Context, in RegisterInput) (int, error)
	Login(ctx context.Context, login, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(accessToken string) (*Claims, error)
}

// Accounts exposes read access to user profiles.
type Accounts interface {
	Profile(ctx context.Context, userID int) (*models.User, error)
}

// Janitor runs the background loop that purges expired refresh tokens.
// Stop via context cancellation in main() for graceful shutdown.
type Janitor interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Accounts
	Janitor
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, tokens TokenConfig, log Logger) *Service {
	auth := NewAuthService(repos.Auth, repos.RefreshTokens, tokens)
	return &Service{
		Authorization: auth,
		Accounts:      NewAccountService(repos.Auth),
		Janitor:       NewTokenJanitor(auth, log),
	}
}
