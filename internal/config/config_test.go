package config

import (
	"testing"
	"time"

	"github.com/ignatzorin/postjob-backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"APP_ENV", "HTTP_PORT", "LOG_LEVEL", "STORAGE_DRIVER", "DATABASE_URL",
	"POSTGRESQL_HOST", "POSTGRESQL_PORT", "POSTGRESQL_USER", "POSTGRESQL_PASSWORD", "POSTGRESQL_DBNAME",
	"MIGRATIONS_PATH", "SEED_PATH", "SEED_ON_START", "REDIS_URL", "FEED_CACHE_TTL",
	"POSTER_TOKEN_SECRET", "POSTER_TOKEN_TTL", "CORS_ALLOWED_ORIGINS",
	"RATE_LIMIT_LIMIT", "RATE_LIMIT_PERIOD", "MATCH_LIMIT",
}

// clearEnv делает окружение теста предсказуемым. Пустая переменная считается
// незаданной, t.Setenv восстановит исходные значения.
func clearEnv(t *testing.T) {
	t.Helper()
	logger.Discard()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "./seeds/seed.yaml", cfg.SeedPath)
	assert.Contains(t, cfg.DatabaseURL, "localhost:5432/postjob")
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 30*time.Second, cfg.FeedCacheTTL)
	assert.Equal(t, 5, cfg.MatchLimit)
	assert.True(t, cfg.SeedOnStart)
	assert.NotEmpty(t, cfg.PosterTokenSecret)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_DatabaseURLFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_PORT", "6432")
	t.Setenv("POSTGRESQL_USER", "app")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss word")
	t.Setenv("POSTGRESQL_DBNAME", "postjob")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:p%40ss%20word@db:6432/postjob?sslmode=disable", cfg.DatabaseURL)
}

func TestFromEnv_Production(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "POSTER_TOKEN_SECRET")

	t.Setenv("POSTER_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "CORS_ALLOWED_ORIGINS")

	t.Setenv("CORS_ALLOWED_ORIGINS", " https://postjob.rw , ,https://admin.postjob.rw")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://postjob.rw", "https://admin.postjob.rw"}, cfg.AllowedOrigins)
	assert.False(t, cfg.SeedOnStart)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"STORAGE_DRIVER", "mongo"},
		{"FEED_CACHE_TTL", "soon"},
		{"RATE_LIMIT_LIMIT", "ten"},
		{"MATCH_LIMIT", "0"},
		{"SEED_ON_START", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
					t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

