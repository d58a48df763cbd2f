package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Empty values read as unset.
	for _, key := range []string{
		"ENVIRONMENT", "SERVER_PORT", "JWT_ACCESS_TTL", "JWT_REFRESH_TTL",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_AUTH_PER_MINUTE",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, 168, cfg.JWT.RefreshTokenTTL)
	assert.Equal(t, 10.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, 5, cfg.RateLimit.AuthPerMinute)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("EMAIL_ENABLED", "TRUE")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidateGuardsProduction(t *testing.T) {
	cfg := &Config{Environment: "production", JWT: JWTConfig{SecretKey: devJWTSecret}}
	assert.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "rotated-secret"
	assert.Error(t, cfg.Validate(), "empty database password")

	cfg.Database.Password = "pw"
	assert.NoError(t, cfg.Validate())

	dev := &Config{Environment: "development", JWT: JWTConfig{SecretKey: devJWTSecret}}
	assert.NoError(t, dev.Validate())
}
