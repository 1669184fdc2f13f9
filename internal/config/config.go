// Package config provides configuration for the reconciliation CLI.
// It loads settings from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultDBPath         = "reconcile.db"
	DefaultTolerance      = 0.5
	DefaultFuzzyThreshold = 65
)

// Config represents the application configuration.
type Config struct {
	// DBPath is the SQLite database file holding transactions and invoices.
	DBPath string

	// GeminiModel overrides the extraction model; empty means the pipeline
	// default. The API key itself is read from the environment by the
	// Gemini client.
	GeminiModel string

	// Tolerance is the default amount tolerance for reconciliation.
	Tolerance float64

	// FuzzyThreshold is the default 0-100 name-similarity threshold.
	FuzzyThreshold int

	Debug bool
}

// Load loads configuration from environment variables.
// It automatically loads a .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	tolerance, err := parseFloatEnv("RECONCILE_TOLERANCE", DefaultTolerance)
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_TOLERANCE: %w", err)
	}

	threshold, err := parseIntEnv("RECONCILE_FUZZY_THRESHOLD", DefaultFuzzyThreshold)
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_FUZZY_THRESHOLD: %w", err)
	}

	config := &Config{
		DBPath:         getEnvOrDefault("RECONCILE_DB_PATH", DefaultDBPath),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		Tolerance:      tolerance,
		FuzzyThreshold: threshold,
		Debug:          os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func parseIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
