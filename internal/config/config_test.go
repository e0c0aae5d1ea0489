package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IMAGE_PROVIDER_TIMEOUT", "")
	t.Setenv("CURRENCY", "idr")
	t.Setenv("JWT_TTL", "")
	t.Setenv("GO_ENV", "development")

	cfg := Load()

	assert.Equal(t, 60*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "IDR", cfg.Payment.Currency)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.IsProduction())
}

func TestCurrencyDefaultsToGatewayCurrency(t *testing.T) {
	t.Setenv("CURRENCY", "")
	os.Unsetenv("CURRENCY")

	assert.Equal(t, "IDR", Load().Payment.Currency)
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "45")
	assert.Equal(t, 45*time.Second, getEnvAsDuration("TEST_DURATION", time.Second))

	t.Setenv("TEST_DURATION", "soon")
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
}

func TestGetEnvAsBoolAndInt(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "maybe")
	assert.False(t, getEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_INT", "12")
	assert.Equal(t, 12, getEnvAsInt("TEST_INT", 3))

	t.Setenv("TEST_INT", "")
	assert.Equal(t, 3, getEnvAsInt("TEST_INT", 3))
}
