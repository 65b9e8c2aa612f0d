package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "DB_DRIVER", "JWT_EXPIRY", "COOKIE_TTL", "COOKIE_SECURE", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, 72*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "token", cfg.Cookie.Name)
	assert.Equal(t, 72*time.Hour, cfg.Cookie.TTL)
	assert.False(t, cfg.Cookie.Secure)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("COOKIE_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 30*time.Minute, cfg.Cookie.TTL)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "three days")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()

	assert.Equal(t, 72*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.Cookie.Secure)
}
