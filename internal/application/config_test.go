package application

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("HUB_API_TOKEN", "hf_test_token")
	os.Setenv("API_AUTH_TOKEN", "secret")
	defer os.Unsetenv("HUB_API_TOKEN")
	defer os.Unsetenv("API_AUTH_TOKEN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.HubAPIToken != "hf_test_token" {
		t.Errorf("Expected HubAPIToken to be 'hf_test_token', got '%s'", cfg.HubAPIToken)
	}
	if cfg.APIAuthToken != "secret" {
		t.Errorf("Expected APIAuthToken to be 'secret', got '%s'", cfg.APIAuthToken)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("Expected Host to be '0.0.0.0', got '%s'", cfg.Host)
	}
	if cfg.DefaultModel != "facebook/bart-large-cnn" {
		t.Errorf("Expected DefaultModel to be 'facebook/bart-large-cnn', got '%s'", cfg.DefaultModel)
	}
	if cfg.CacheType != "memory" {
		t.Errorf("Expected CacheType to be 'memory', got '%s'", cfg.CacheType)
	}
	if cfg.CacheTTLHours != 24 {
		t.Errorf("Expected CacheTTLHours to be 24, got %d", cfg.CacheTTLHours)
	}
	if cfg.CleanupSchedule != "0 * * * *" {
		t.Errorf("Expected hourly cleanup schedule, got '%s'", cfg.CleanupSchedule)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DEFAULT_MODEL", "google/pegasus-xsum")
	os.Setenv("CACHE_TTL_HOURS", "6")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("DEFAULT_MODEL")
	defer os.Unsetenv("CACHE_TTL_HOURS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}
	if cfg.DefaultModel != "google/pegasus-xsum" {
		t.Errorf("Expected DefaultModel override, got '%s'", cfg.DefaultModel)
	}
	if cfg.CacheTTLHours != 6 {
		t.Errorf("Expected CacheTTLHours to be 6, got %d", cfg.CacheTTLHours)
	}
}

func TestLoadConfigInvalidCacheType(t *testing.T) {
	os.Setenv("CACHE_TYPE", "redis")
	defer os.Unsetenv("CACHE_TYPE")

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error for unsupported cache type")
	}
	configErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("Expected *ConfigError, got %T", err)
	}
	if configErr.Field != "CACHE_TYPE" {
		t.Errorf("Expected CACHE_TYPE error, got %s", configErr.Field)
	}
}

func TestLoadConfigMalformedTTL(t *testing.T) {
	os.Setenv("CACHE_TTL_HOURS", "not-a-number")
	defer os.Unsetenv("CACHE_TTL_HOURS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.CacheTTLHours != 24 {
		t.Errorf("Expected default TTL for malformed value, got %d", cfg.CacheTTLHours)
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "CACHE_TYPE", Message: "must be memory or cloud-storage"}
	expected := "CACHE_TYPE: must be memory or cloud-storage"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}
}
