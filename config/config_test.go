package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("SUPABASE_KEY", "anon")
	t.Setenv("RATE_LIMIT_VERIFY_THRESHOLD", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseUrl)
	assert.Equal(t, "anon", cfg.SupabaseAnonKey, "legacy SUPABASE_KEY is honored")
	assert.Equal(t, 30, cfg.RateLimitVerifyThreshold)
	assert.Equal(t, "authenticated", cfg.JWTAudience)
	assert.Equal(t, "https://abc.supabase.co/auth/v1/.well-known/jwks.json", cfg.JWKSURL())
	assert.Equal(t, "https://abc.supabase.co/auth/v1", cfg.TokenIssuer())
}

func TestEmptySupabaseURL(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.JWKSURL())
	assert.Empty(t, cfg.TokenIssuer())
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_DURATION", "250ms")
	assert.Equal(t, 250*time.Millisecond, getEnvDuration("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "7")
	assert.Equal(t, 7*time.Second, getEnvDuration("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "soon")
	assert.Equal(t, time.Second, getEnvDuration("X_DURATION", time.Second))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("X_BOOL", "false")
	assert.False(t, getEnvBool("X_BOOL", true))
	t.Setenv("X_BOOL", "maybe")
	assert.True(t, getEnvBool("X_BOOL", true))
}

func TestFrontendURLs(t *testing.T) {
	cfg := &Config{FrontendURL: "https://jobs.example.com/, https://admin.example.com ,,"}
	assert.Equal(t, []string{"https://jobs.example.com", "https://admin.example.com"}, cfg.FrontendURLs())
	assert.Empty(t, (&Config{}).FrontendURLs())
}
