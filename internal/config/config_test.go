package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "STORE", "DATABASE_URL", "MYSQL_DSN", "REDIS_ADDR", "IDEMPOTENCY_TTL", "SEED", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.False(t, cfg.Development())
	assert.False(t, cfg.Seed)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("IDEMPOTENCY_TTL", "1h")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Development())
	assert.True(t, cfg.Seed, "development seeds by default")
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DatabaseURL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_SeedCanBeDisabledInDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("SEED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Seed)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown store", key: "STORE", value: "sqlite"},
		{name: "bad ttl", key: "IDEMPOTENCY_TTL", value: "forever"},
		{name: "negative timeout", key: "SHUTDOWN_TIMEOUT", value: "-1s"},
		{name: "bad seed flag", key: "SEED", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
