package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, 100, cfg.DefaultTotalBeds)
	assert.Equal(t, "*/15 * * * *", cfg.SweepSchedule)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_TOTAL_BEDS", "250")
	t.Setenv("SWEEP_SCHEDULE", "@hourly")
	t.Setenv("MONGODB_DB", "carewell_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 250, cfg.DefaultTotalBeds)
	assert.Equal(t, "@hourly", cfg.SweepSchedule)
	assert.Equal(t, "carewell_test", cfg.Mongo.Database)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Run("negative beds", func(t *testing.T) {
		t.Setenv("DEFAULT_TOTAL_BEDS", "-5")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("non-numeric beds", func(t *testing.T) {
		t.Setenv("DEFAULT_TOTAL_BEDS", "many")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("TIME_ZONE", "Mars/Olympus")
		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("bad jwt expiration", func(t *testing.T) {
		t.Setenv("JWT_EXPIRATION_HOURS", "soon")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}
