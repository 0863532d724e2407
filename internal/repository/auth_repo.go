package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auth_portal/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL = `INSERT INTO users (username, email, first_name, last_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	selectUserColumns       = `SELECT id, username, email, first_name, last_name, password_hash, created_at FROM users`
	selectUserByUsernameSQL = selectUserColumns + ` WHERE username = ?`
	selectUserByEmailSQL    = selectUserColumns + ` WHERE email = ?`
	selectUserByIDSQL       = selectUserColumns + ` WHERE id = ?`
)

// isUniqueViolation reports a UNIQUE or PRIMARY KEY conflict from the sqlite driver.
// The driver enables extended result codes, so the constraint kind is in Code().
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, u models.User) (int, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	} else {
		createdAt = createdAt.UTC()
	}

	res, err := r.db.ExecContext(ctx, insertUserSQL,
		u.Username,
		u.Email,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user %q: %w", u.Username, ErrDuplicateUser)
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUserByUsernameSQL, "username", username)
}

// GetByEmail fetches a user by email (case-insensitive). Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUserByEmailSQL, "email", email)
}

// GetByID fetches a user by primary key. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, selectUserByIDSQL, "id", id)
}

func (r *UserRepository) getOne(ctx context.Context, query, field string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user by %s %v: %w", field, arg, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
