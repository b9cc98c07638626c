// Package config resolves runtime settings from the environment. A
// .env file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath string

	PrimaryBaseURL   string
	PrimaryAPIKey    string
	SecondaryBaseURL string

	// Only the primary provider surfaces errors to the user by
	// default; the secondary fails silently. Both are overridable so
	// the policy stays visible and testable.
	PrimaryReportErrors   bool
	SecondaryReportErrors bool

	Debounce time.Duration
}

// Load reads .env (if any) and the environment. Missing keys fall back
// to defaults; nothing here is required.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBPath:                os.Getenv("CUTLOG_DB"),
		PrimaryBaseURL:        os.Getenv("CUTLOG_PRIMARY_BASE_URL"),
		PrimaryAPIKey:         os.Getenv("CUTLOG_PRIMARY_API_KEY"),
		SecondaryBaseURL:      os.Getenv("CUTLOG_SECONDARY_BASE_URL"),
		PrimaryReportErrors:   envBool("CUTLOG_PRIMARY_REPORT_ERRORS", true),
		SecondaryReportErrors: envBool("CUTLOG_SECONDARY_REPORT_ERRORS", false),
		Debounce:              envDuration("CUTLOG_SEARCH_DEBOUNCE", 500*time.Millisecond),
	}
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
