package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auth_portal/internal/models"
)

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

var _ RefreshTokens = (*RefreshTokenRepository)(nil)

const (
	insertRefreshTokenSQL  = `INSERT INTO refresh_tokens (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`
	selectRefreshTokenSQL  = `SELECT token, user_id, expires_at, created_at FROM refresh_tokens WHERE token = ?`
	deleteRefreshTokenSQL  = `DELETE FROM refresh_tokens WHERE token = ?`
	deleteExpiredTokensSQL = `DELETE FROM refresh_tokens WHERE expires_at <= ?`
)

// Create stores t. Timestamps are persisted in UTC; a zero CreatedAt is set to now.
func (r *RefreshTokenRepository) Create(ctx context.Context, t models.RefreshToken) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, insertRefreshTokenSQL,
		t.Token,
		t.UserID,
		t.ExpiresAt.UTC(),
		createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert refresh token for user %d: %w", t.UserID, err)
	}
	return nil
}

// Find returns (nil, nil) when the token does not exist.
func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.db.QueryRowContext(ctx, selectRefreshTokenSQL, token).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select refresh token: %w", err)
	}
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

// Delete removes the token. Deleting an unknown token is not an error.
func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, deleteRefreshTokenSQL, token); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// DeleteExpired removes every token that expired at or before now and reports how many.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredTokensSQL, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
