package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"jobindex/internal/engine"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	Port         int
	DataDir      string
	Countries    []string
	LogLevel     string
	LogPretty    bool
	SessionTTL   time.Duration
	SessionSweep string
	GitHubURL    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("PORT", 8080),
		DataDir:      getEnv("DATA_DIR", "./data"),
		Countries:    getEnvAsList("COUNTRIES", []string{"US", "GB", "FR", "DE", "CA", "AU"}),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("LOG_PRETTY", false),
		SessionTTL:   getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		SessionSweep: getEnv("SESSION_SWEEP", "@every 5m"),
		GitHubURL:    getEnv("GITHUB_URL", "https://github.com/your-repo-link"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if len(c.Countries) == 0 {
		return fmt.Errorf("COUNTRIES must name at least one country")
	}
	for i, code := range c.Countries {
		country, ok := engine.LookupCountry(code)
		if !ok {
			return fmt.Errorf("COUNTRIES: %w", &engine.UnknownCountryError{Code: code})
		}
		c.Countries[i] = country.Code
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if _, err := cron.ParseStandard(c.SessionSweep); err != nil {
		return fmt.Errorf("SESSION_SWEEP %q: %w", c.SessionSweep, err)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
