package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsToDemo(t *testing.T) {
	// No Firebase project configured implies demo mode.
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Demo)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMin)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.NotEmpty(t, cfg.Auth.TokenSecret, "demo mode should synthesise a token secret")
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("FINBOARD_ADDR", ":9090")
	t.Setenv("FINBOARD_RATE_BURST", "5")
	t.Setenv("FINBOARD_TOKEN_TTL_MIN", "15")
	t.Setenv("FINBOARD_AUTH_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Server.RateBurst)
	assert.Equal(t, 15, cfg.Auth.TokenTTLMin)
	assert.Equal(t, "s3cret", cfg.Auth.TokenSecret)
}

func TestFirebaseConfigRequiresAPIKey(t *testing.T) {
	t.Setenv("FINBOARD_FIREBASE_PROJECT", "finboard-prod")
	t.Setenv("FINBOARD_AUTH_SECRET", "s3cret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FINBOARD_FIREBASE_API_KEY")
}

func TestFirebaseConfigRequiresTokenSecret(t *testing.T) {
	t.Setenv("FINBOARD_FIREBASE_PROJECT", "finboard-prod")
	t.Setenv("FINBOARD_FIREBASE_API_KEY", "web-api-key")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FINBOARD_AUTH_SECRET")
}

func TestExplicitDemoWinsOverProject(t *testing.T) {
	t.Setenv("FINBOARD_DEMO", "true")
	t.Setenv("FINBOARD_FIREBASE_PROJECT", "finboard-prod")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Demo)
}
