package models

import "time"

// User is a registered account. Username and Email are both unique.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"` // don’t expose hash
	CreatedAt    time.Time `json:"created_at"`
}
