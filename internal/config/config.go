// Package config loads runtime settings from configs/config.yml, a local .env file
// and APP_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "APP"

// Config is the fully resolved application configuration.
type Config struct {
	Port string
	DB   DBConfig
	Log  LogConfig
	JWT  JWTConfig
	// JanitorInterval is how often expired refresh tokens are purged.
	JanitorInterval time.Duration
}

type DBConfig struct {
	Path string
}

type LogConfig struct {
	Level string
	File  string
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

var ErrMissingSecret = errors.New("jwt.secret must be set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_ttl", "30m")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("janitor.interval", "10m")
}

// Load reads config.yml from the given directories (first match wins). A missing
// file is not an error; defaults and environment still apply.
func Load(paths ...string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port: v.GetString("port"),
		DB:   DBConfig{Path: v.GetString("db.path")},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			AccessTTL:  v.GetDuration("jwt.access_ttl"),
			RefreshTTL: v.GetDuration("jwt.refresh_ttl"),
		},
		JanitorInterval: v.GetDuration("janitor.interval"),
	}
	if cfg.JWT.Secret == "" {
		return Config{}, ErrMissingSecret
	}
	if cfg.JanitorInterval <= 0 {
		return Config{}, fmt.Errorf("janitor.interval must be positive, got %v", cfg.JanitorInterval)
	}
	return cfg, nil
}
