// Package config loads runtime settings from environment variables.
//
// cmd/server calls godotenv first, so a local .env file can fill in anything
// the real environment leaves unset.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported store backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds every runtime setting.
type Config struct {
	Port     int
	LogLevel slog.Level

	DBDriver      string
	DBPath        string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	JWTSecret   string
	JWTLifetime time.Duration

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string

	RequestTimeout time.Duration
}

// Load reads the environment, applies defaults and validates the result.
func Load() (Config, error) {
	cfg := Config{
		DBDriver:           strings.ToLower(fallback(os.Getenv("DB_DRIVER"), DriverSQLite)),
		DBPath:             fallback(os.Getenv("DB_PATH"), "data/jobs.db"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MongoURI:           strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:      fallback(os.Getenv("MONGO_DATABASE"), "jobs"),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		GitHubClientID:     strings.TrimSpace(os.Getenv("GITHUB_CLIENT_ID")),
		GitHubClientSecret: strings.TrimSpace(os.Getenv("GITHUB_CLIENT_SECRET")),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(fallback(os.Getenv("PORT"), "8080")); err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: invalid PORT %q", os.Getenv("PORT"))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(fallback(os.Getenv("LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}

	if cfg.JWTLifetime, err = ParseLifetime(fallback(os.Getenv("JWT_LIFETIME"), "30d")); err != nil {
		return Config{}, fmt.Errorf("config: invalid JWT_LIFETIME: %w", err)
	}

	if cfg.RequestTimeout, err = time.ParseDuration(fallback(os.Getenv("REQUEST_TIMEOUT"), "30s")); err != nil || cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("config: invalid REQUEST_TIMEOUT %q", os.Getenv("REQUEST_TIMEOUT"))
	}

	cfg.GitHubCallbackURL = fallback(os.Getenv("GITHUB_CALLBACK_URL"),
		fmt.Sprintf("http://localhost:%d/api/v1/auth/github/callback", cfg.Port))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be at least 16 characters")
	}

	switch c.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("config: MONGO_URI is required when DB_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q (want sqlite, postgres or mongo)", c.DBDriver)
	}
	return nil
}

// GitHubEnabled reports whether GitHub sign-in is configured.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// HTTPAddress returns the address for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ParseLifetime accepts a Go duration ("720h", "90m") or a whole number of
// days ("30d").
func ParseLifetime(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("lifetime must be positive, got %s", s)
	}
	return d, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
