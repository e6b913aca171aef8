package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientDefaults(t *testing.T) {
	t.Setenv("ROOMDESK_SESSION_FILE", "/tmp/roomdesk-test-session.json")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001/api", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, "/tmp/roomdesk-test-session.json", cfg.SessionFile)
}

func TestLoadClientOverrides(t *testing.T) {
	t.Setenv("ROOMDESK_API_URL", "https://rooms.example.edu/api")
	t.Setenv("ROOMDESK_SEARCH_DEBOUNCE", "250ms")
	t.Setenv("ROOMDESK_SESSION_FILE", "/tmp/s.json")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "https://rooms.example.edu/api", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
}

func TestLoadClientInvalidDuration(t *testing.T) {
	t.Setenv("ROOMDESK_HTTP_TIMEOUT", "soon")

	_, err := LoadClient()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROOMDESK_HTTP_TIMEOUT")
}

func TestLoadServerRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.False(t, cfg.IsProduction)
	assert.Empty(t, cfg.DBDSN)
}
