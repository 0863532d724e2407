package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoad_FromFile(t *testing.T) {
	dir := writeConfig(t, `
port: "9090"
db:
  path: /tmp/users.db
log:
  level: warn
jwt:
  secret: from-file
  access_ttl: 5m
  refresh_ttl: 24h
janitor:
  interval: 1m
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/users.db", cfg.DB.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, time.Minute, cfg.JanitorInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_PORT", "7070")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "s")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "app.db", cfg.DB.Path)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, 10*time.Minute, cfg.JanitorInterval)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "")

	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := writeConfig(t, "port: [unterminated\n")

	_, err := Load(dir)
	assert.Error(t, err)
}
