package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "PROD_ORIGINS", "HTTP_ADDR", "DB_DSN", "DB_CONNECT_RETRIES",
	"JWT_SECRET", "JWT_ACCESS_TOKEN_TTL", "BCRYPT_COST",
	"COMMIT_TIMEOUT", "LOCK_TIMEOUT", "WEEKEND_SURCHARGE_NAME",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "IDEMPOTENCY_TTL",
}

// clearEnv unsets every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/padel")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 3, cfg.DBConnectRetries)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 3*time.Second, cfg.CommitTimeout)
	assert.Equal(t, 2*time.Second, cfg.LockTimeout)
	assert.Equal(t, "Fin de semana", cfg.WeekendSurchargeName)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("DB_DSN", "postgres://db/padel")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COMMIT_TIMEOUT", "5s")
	t.Setenv("LOCK_TIMEOUT", "500ms")
	t.Setenv("WEEKEND_SURCHARGE_NAME", "Weekend")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 5*time.Second, cfg.CommitTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, "Weekend", cfg.WeekendSurchargeName)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadRequiredValues(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.ErrorContains(t, err, "DB_DSN")

	t.Setenv("DB_DSN", "postgres://localhost/padel")
	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	cfg, err := LoadTooling()
	require.NoError(t, err)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadRejectsInvalidTimeouts(t *testing.T) {
	cases := map[string][2]string{
		"lock exceeds commit": {"1s", "2s"},
		"zero commit":         {"0s", "0s"},
		"not a duration":      {"soon", "1s"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_DSN", "postgres://localhost/padel")
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv("COMMIT_TIMEOUT", tc[0])
			t.Setenv("LOCK_TIMEOUT", tc[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvAsIntInvalid(t *testing.T) {
	t.Setenv("BCRYPT_COST", "twelve")
	_, err := getEnvAsInt("BCRYPT_COST", 12)
	assert.ErrorContains(t, err, "not a valid integer")
}
