package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so the host environment cannot leak
// into a test. t.Setenv restores the previous values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "MONGO_URI",
		"MONGO_DATABASE", "JWT_SECRET", "JWT_LIFETIME", "GITHUB_CLIENT_ID",
		"GITHUB_CLIENT_SECRET", "GITHUB_CALLBACK_URL", "REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "data/jobs.db", cfg.DBPath)
	assert.Equal(t, "jobs", cfg.MongoDatabase)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTLifetime)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://localhost:8080/api/v1/auth/github/callback", cfg.GitHubCallbackURL)
	assert.False(t, cfg.GitHubEnabled())
	assert.Equal(t, ":8080", cfg.HTTPAddress())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("JWT_LIFETIME", "12h")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 12*time.Hour, cfg.JWTLifetime)
	assert.True(t, cfg.GitHubEnabled())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bad port", map[string]string{"PORT": "eighty"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad lifetime", map[string]string{"JWT_LIFETIME": "forever"}},
		{"bad timeout", map[string]string{"REQUEST_TIMEOUT": "-1s"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}},
		{"mongo without uri", map[string]string{"DB_DRIVER": "mongo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, ok := tt.env["JWT_SECRET"]; !ok && tt.name != "missing secret" {
				t.Setenv("JWT_SECRET", "0123456789abcdef")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLifetime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30d", 30 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"0d", 0, true},
		{"xd", 0, true},
		{"-5m", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLifetime(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
