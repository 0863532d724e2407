package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"auth_portal/internal/models"
)

// ErrDuplicateUser is returned when a username or email is already taken.
var ErrDuplicateUser = errors.New("user already exists")

// Authorization is the user store used by registration, login and profile lookups.
// Getters return (nil, nil) when no row matches.
type Authorization interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// RefreshTokens persists opaque refresh tokens.
type RefreshTokens interface {
	Create(ctx context.Context, t models.RefreshToken) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository struct {
	Auth          Authorization
	RefreshTokens RefreshTokens
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:          NewUserRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
	}
}
