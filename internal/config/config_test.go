package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/gov_scores.json", cfg.GovDataPath)
	assert.Equal(t, "data/assessments.json", cfg.AssessmentsDataPath)
	assert.Equal(t, "data/profiles.json", cfg.ProfilesDataPath)
	assert.Equal(t, "data/vic_weeds.json", cfg.VicDataPath)
	assert.Empty(t, cfg.OverridesPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Duration(0), cfg.ReloadInterval)
	assert.True(t, cfg.INatEnabled)
	assert.Equal(t, "https://api.inaturalist.org/v1", cfg.INatBaseURL)
	assert.Equal(t, 5*time.Second, cfg.INatTimeout)
	assert.Equal(t, 1000, cfg.INatCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("GOV_DATA_PATH", "/srv/data/gov.json")
	t.Setenv("ASSESSMENTS_DATA_PATH", "/srv/data/assessments.json")
	t.Setenv("PROFILES_DATA_PATH", "/srv/data/profiles.json")
	t.Setenv("VIC_DATA_PATH", "/srv/data/vic.json")
	t.Setenv("OVERRIDES_PATH", "/srv/data/overrides.yaml")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("RELOAD_INTERVAL", "1h")
	t.Setenv("INAT_BASE_URL", "http://localhost:8181/v1")
	t.Setenv("INAT_TIMEOUT", "10s")
	t.Setenv("INAT_CACHE_SIZE", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/data/gov.json", cfg.GovDataPath)
	assert.Equal(t, "/srv/data/assessments.json", cfg.AssessmentsDataPath)
	assert.Equal(t, "/srv/data/profiles.json", cfg.ProfilesDataPath)
	assert.Equal(t, "/srv/data/vic.json", cfg.VicDataPath)
	assert.Equal(t, "/srv/data/overrides.yaml", cfg.OverridesPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Hour, cfg.ReloadInterval)
	assert.Equal(t, "http://localhost:8181/v1", cfg.INatBaseURL)
	assert.Equal(t, 10*time.Second, cfg.INatTimeout)
	assert.Equal(t, 500, cfg.INatCacheSize)
}

func TestLoad_INatDisabled(t *testing.T) {
	t.Setenv("INAT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.INatEnabled)
}

func TestLoad_InvalidDurations(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"malformed shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"zero shutdown timeout", "SHUTDOWN_TIMEOUT", "0s"},
		{"negative reload interval", "RELOAD_INTERVAL", "-1m"},
		{"malformed inat timeout", "INAT_TIMEOUT", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("INAT_CACHE_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.INatCacheSize)
}
