// Package testutil provides fixtures for tests that need a live application: a
// freshly migrated SQLite store, the full HTTP stack on a loopback port, and a
// headless browser to drive the pages.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"auth_portal/internal/handlers"
	"auth_portal/internal/logger"
	"auth_portal/internal/models"
	"auth_portal/internal/repository"
	"auth_portal/internal/repository/db"
	"auth_portal/internal/server"
	"auth_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testSecret      = "testutil-jwt-secret"
	shutdownTimeout = 5 * time.Second
)

// App is a running application instance backed by its own database file.
type App struct {
	// BaseURL has no trailing slash, e.g. http://127.0.0.1:53817.
	BaseURL  string
	DB       *sql.DB
	Repos    *repository.Repository
	Services *service.Service
}

// StartApp migrates a new SQLite file under t.TempDir(), wires every layer and
// serves on 127.0.0.1 with a random port. Everything is torn down on cleanup.
func StartApp(t testing.TB) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := db.InitDB(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err, "init sqlite")

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.TokenConfig{Secret: testSecret}, nil)
	router := handlers.NewHandler(services, logger.Nop()).InitRoutes()

	srv := &server.Server{}
	addr, err := srv.Start("127.0.0.1:0", router)
	require.NoError(t, err, "start server")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Logf("server shutdown: %v", err)
		}
		if err := conn.Close(); err != nil {
			t.Logf("close sqlite: %v", err)
		}
	})

	return &App{
		BaseURL:  "http://" + addr,
		DB:       conn,
		Repos:    repos,
		Services: services,
	}
}

// URL joins path onto the base URL.
func (a *App) URL(path string) string {
	return a.BaseURL + path
}

// UserFixture describes an account inserted straight into the store.
type UserFixture struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// SeedUser bypasses the UI and the registration rules: it hashes the password
// and inserts the row through the repository.
func (a *App) SeedUser(t testing.TB, f UserFixture) *models.User {
	t.Helper()

	hash, err := service.HashPassword(f.Password)
	require.NoError(t, err, "hash fixture password")

	u := models.User{
		Username:     f.Username,
		Email:        f.Email,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := a.Repos.Auth.Create(context.Background(), u)
	require.NoError(t, err, "seed user %q", f.Username)

	u.ID = id
	return &u
}
