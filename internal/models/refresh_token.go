package models

import "time"

// RefreshToken is an opaque, server-side session handle exchanged for new access tokens.
type RefreshToken struct {
	Token     string    `json:"-"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token is no longer usable at now.
func (t RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
