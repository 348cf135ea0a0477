package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orders-backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("MOCK_DELAY", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.MockDelay)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.SupabaseEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_DevelopmentSecretDefault(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DevelopmentJWTSecret, cfg.JWTSecret)
	assert.True(t, cfg.UsingDevelopmentSecret())
}

func TestLoad_ProductionGetsNoDevelopmentSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/orders")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("MOCK_DELAY", "soon")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MOCK_DELAY")
}

func TestValidate_ProductionRequiresDatabaseAndSecret(t *testing.T) {
	cfg := &config.Config{Environment: "production"}
	assert.Error(t, cfg.Validate())

	cfg.DatabaseURL = "postgres://localhost/orders"
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_SupabasePair(t *testing.T) {
	cfg := &config.Config{SupabaseURL: "https://example.supabase.co"}
	assert.Error(t, cfg.Validate())

	cfg.SupabasePublishableKey = "key"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.SupabaseEnabled())
}

func TestPrerendering(t *testing.T) {
	cfg := &config.Config{BuildPhase: config.BuildPhasePrerender}
	assert.True(t, cfg.Prerendering())
}
