package application

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Inference hub settings
	HubAPIToken  string `json:"-"` // Don't expose in JSON
	HubBaseURL   string `json:"hub_base_url,omitempty"`
	HubConfigURL string `json:"hub_config_url,omitempty"`
	DefaultModel string `json:"default_model"`

	// Result cache settings
	CacheType     string `json:"cache_type"`
	CacheTTLHours int    `json:"cache_ttl_hours"`

	// API settings
	APIAuthToken string `json:"-"` // Don't expose in JSON

	// Cleanup schedule for the server's cache prune job
	CleanupSchedule string `json:"cleanup_schedule"`
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Host:            getEnvOrDefault("HOST", "0.0.0.0"),
		HubAPIToken:     getEnvOrDefault("HUB_API_TOKEN", ""),
		HubBaseURL:      getEnvOrDefault("HUB_BASE_URL", ""),
		HubConfigURL:    getEnvOrDefault("HUB_CONFIG_URL", ""),
		DefaultModel:    getEnvOrDefault("DEFAULT_MODEL", "facebook/bart-large-cnn"),
		CacheType:       getEnvOrDefault("CACHE_TYPE", "memory"),
		CacheTTLHours:   getEnvIntOrDefault("CACHE_TTL_HOURS", 24),
		APIAuthToken:    getEnvOrDefault("API_AUTH_TOKEN", ""),
		CleanupSchedule: getEnvOrDefault("CLEANUP_SCHEDULE", "0 * * * *"),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present.
func (c *Config) validate() error {
	if c.DefaultModel == "" {
		return &ConfigError{Field: "DEFAULT_MODEL", Message: "default model is required"}
	}
	if c.CacheType != "memory" && c.CacheType != "cloud-storage" {
		return &ConfigError{Field: "CACHE_TYPE", Message: "must be memory or cloud-storage"}
	}
	if c.CacheTTLHours <= 0 {
		return &ConfigError{Field: "CACHE_TTL_HOURS", Message: "must be a positive integer"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns an integer environment variable or the default
// when unset or malformed.
func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
