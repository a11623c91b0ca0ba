package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "flighttrack", cfg.MongoDB)
	assert.Empty(t, cfg.PostgresDSN)
	assert.Equal(t, "data/processed/flights.json", cfg.OutputJSON)
	assert.Equal(t, "data/processed/flights.csv", cfg.OutputCSV)

	require.Len(t, cfg.Accounts, 1)
	assert.Equal(t, "primary", cfg.Accounts[0].ID)
}

func TestLoadConfigMultiAccount(t *testing.T) {
	t.Setenv("ACCOUNTS", "personal, work")
	t.Setenv("GMAIL_REFRESH_TOKEN", "shared-token")
	t.Setenv("GMAIL_REFRESH_TOKEN_WORK", "work-token")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Accounts, 2)

	personal, err := cfg.Account("personal")
	require.NoError(t, err)
	assert.Equal(t, "shared-token", personal.RefreshToken)

	work, err := cfg.Account("work")
	require.NoError(t, err)
	assert.Equal(t, "work-token", work.RefreshToken)

	_, err = cfg.Account("missing")
	assert.Error(t, err)
}

func TestLoadConfigDebugFlag(t *testing.T) {
	t.Setenv("DEBUG", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestRefreshTokenKey(t *testing.T) {
	assert.Equal(t, "GMAIL_REFRESH_TOKEN_WORK", refreshTokenKey("work"))
	assert.Equal(t, "GMAIL_REFRESH_TOKEN_SIDE_GIG", refreshTokenKey("side-gig"))
}
