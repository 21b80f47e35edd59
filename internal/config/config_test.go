package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Equal(t, 30, cfg.RenewalWindowDays)
	assert.Equal(t, 256, cfg.TimelineCacheSize)
	assert.False(t, cfg.SlackEnabled())
	assert.True(t, cfg.Development())
}

func TestLoad_Overrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("JWT_SECRET", "topsecret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "topsecret", cfg.JWTSecret)
}

func TestLoad_RequiresJWTSecretOutsideDevelopment(t *testing.T) {
	os.Clearenv()
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_SlackChannelRequiredWithToken(t *testing.T) {
	os.Clearenv()
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLACK_RENEWALS_CHANNEL")

	t.Setenv("SLACK_RENEWALS_CHANNEL", "#renewals")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SlackEnabled())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := &Config{Environment: "development", SessionTTL: 0, TimelineCacheSize: 10}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Environment: "development", SessionTTL: time.Hour, TimelineCacheSize: 0}
	assert.Error(t, cfg.Validate())
}
