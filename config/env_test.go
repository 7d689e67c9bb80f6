package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "")
	t.Setenv("PORT", "9000")
	t.Setenv("SIGNUP_DELAY", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("LOGIN_DELAY", "250ms")
	t.Setenv("PAYMENT_DELAY", "not-a-duration")
	t.Setenv("FAIL_MODE", "true")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	for _, key := range []string{"DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.LoginDelay)
	assert.Equal(t, 2*time.Second, cfg.PaymentDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.SignupDelay)
	assert.True(t, cfg.FailMode)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "postgres://postgres:postgres@db:5454/storefront?sslmode=disable", cfg.DSN())
	assert.Same(t, cfg, AppConfig)
}
