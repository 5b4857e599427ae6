package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadForManagement_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("FRONTEND_URL", "https://shop.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	cfg := LoadForManagement()

	assert.Equal(t, "sqlite://storefront.db", cfg.DatabaseURL)
	assert.Equal(t, "https://shop.example.com", cfg.FrontendURL, "Trailing slash is trimmed")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.IsProduction())
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("TEST_INT", "many")
	t.Setenv("TEST_BOOL", "sometimes")
	t.Setenv("TEST_DURATION", "forever")

	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))
	assert.False(t, getEnvAsBool("TEST_BOOL", false))
	assert.Equal(t, time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))

	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, getEnvAsDuration("TEST_DURATION", "1h"))
}
