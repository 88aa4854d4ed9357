package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	GovDataPath         string
	AssessmentsDataPath string
	ProfilesDataPath    string
	VicDataPath         string
	OverridesPath       string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// ReloadInterval is how often the source files are re-read and the
	// reconciliation index rebuilt. Zero disables periodic reloads.
	ReloadInterval time.Duration

	// iNaturalist photo enrichment configuration.
	INatBaseURL   string
	INatEnabled   bool
	INatTimeout   time.Duration
	INatCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s", false)
	if err != nil {
		return nil, err
	}
	reloadInterval, err := parseDuration("RELOAD_INTERVAL", "0s", true)
	if err != nil {
		return nil, err
	}
	inatTimeout, err := parseDuration("INAT_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}

	inatEnabled := true
	if v := os.Getenv("INAT_ENABLED"); v != "" {
		inatEnabled = v == "true"
	}

	cfg := &Config{
		GovDataPath:         envOrDefault("GOV_DATA_PATH", "data/gov_scores.json"),
		AssessmentsDataPath: envOrDefault("ASSESSMENTS_DATA_PATH", "data/assessments.json"),
		ProfilesDataPath:    envOrDefault("PROFILES_DATA_PATH", "data/profiles.json"),
		VicDataPath:         envOrDefault("VIC_DATA_PATH", "data/vic_weeds.json"),
		OverridesPath:       os.Getenv("OVERRIDES_PATH"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		ReloadInterval:  reloadInterval,

		INatBaseURL:   envOrDefault("INAT_BASE_URL", "https://api.inaturalist.org/v1"),
		INatEnabled:   inatEnabled,
		INatTimeout:   inatTimeout,
		INatCacheSize: parseINatCacheSize(),
	}

	if cfg.GovDataPath == "" {
		return nil, errors.New("GOV_DATA_PATH is required")
	}
	if cfg.AssessmentsDataPath == "" {
		return nil, errors.New("ASSESSMENTS_DATA_PATH is required")
	}
	if cfg.ProfilesDataPath == "" {
		return nil, errors.New("PROFILES_DATA_PATH is required")
	}
	if cfg.VicDataPath == "" {
		return nil, errors.New("VIC_DATA_PATH is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string, zeroOK bool) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d < 0 || (d == 0 && !zeroOK) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseINatCacheSize() int {
	if s := os.Getenv("INAT_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
