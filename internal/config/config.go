// Package config loads jd-admin settings from a JSON file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/jd-admin/internal/jdapi"
	"github.com/jonathan/jd-admin/internal/logging"
)

// Environment variables read by FromEnv.
const (
	EnvAPIBaseURL     = "JD_API_BASE_URL"
	EnvTimeoutSeconds = "JD_API_TIMEOUT_SECONDS"
	EnvPort           = "JD_ADMIN_PORT"
	EnvSessionSecret  = "JD_ADMIN_SESSION_SECRET"
	EnvSessionHours   = "JD_ADMIN_SESSION_HOURS"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
)

// Default values applied by Defaults.
const (
	DefaultPort         = 3000
	DefaultSessionHours = 24
)

// Config is one layer of settings. Every field is optional; layers are
// combined with MergeWithDefaults.
type Config struct {
	// JD service
	APIBaseURL      string `json:"api_base_url,omitempty"`      // Base URL of the JD service
	TimeoutSeconds  int    `json:"timeout_seconds,omitempty"`   // Per-request timeout; 0 waits indefinitely
	SkipSchemaCheck bool   `json:"skip_schema_check,omitempty"` // Accept responses without schema validation

	// Admin UI
	Port          int    `json:"port,omitempty"`           // Listen port for the admin UI
	SessionSecret string `json:"session_secret,omitempty"` // HMAC key for session cookies
	SessionHours  int    `json:"session_hours,omitempty"`  // Session cookie lifetime

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty"` // json or pretty
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBaseURL:   jdapi.DefaultBaseURL,
		Port:         DefaultPort,
		SessionHours: DefaultSessionHours,
		LogLevel:     "info",
		LogFormat:    logging.FormatJSON,
	}
}

// LoadConfig reads a JSON config file. Relative paths resolve against the working directory.
func LoadConfig(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", abs, err)
	}

	cfg := new(Config)
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON in %s: %w", abs, err)
	}
	return cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables
// leave their fields zero.
func FromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:    os.Getenv(EnvAPIBaseURL),
		SessionSecret: os.Getenv(EnvSessionSecret),
		LogLevel:      os.Getenv(EnvLogLevel),
		LogFormat:     os.Getenv(EnvLogFormat),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvTimeoutSeconds, &cfg.TimeoutSeconds},
		{EnvPort, &cfg.Port},
		{EnvSessionHours, &cfg.SessionHours},
	}
	for _, v := range ints {
		raw := strings.TrimSpace(os.Getenv(v.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %v", v.name, err)
		}
		*v.dst = n
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Empty fields are accepted since defaults are merged afterwards.
func (c *Config) Validate() error {
	if c.APIBaseURL != "" {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("config error: 'api_base_url' must be an absolute http(s) URL: %s", c.APIBaseURL)
		}
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.SessionHours < 0 {
		return fmt.Errorf("config error: 'session_hours' must be non-negative")
	}

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config error: unknown 'log_level': %s", c.LogLevel)
		}
	}
	if c.LogFormat != "" && c.LogFormat != logging.FormatJSON && c.LogFormat != logging.FormatPretty {
		return fmt.Errorf("config error: 'log_format' must be %q or %q", logging.FormatJSON, logging.FormatPretty)
	}

	return nil
}

// MergeWithDefaults fills zero-valued fields from defaults. SkipSchemaCheck is
// left alone since false cannot be told apart from unset.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	merged := *c
	fill(&merged.APIBaseURL, defaults.APIBaseURL)
	fill(&merged.SessionSecret, defaults.SessionSecret)
	fill(&merged.LogLevel, defaults.LogLevel)
	fill(&merged.LogFormat, defaults.LogFormat)
	fill(&merged.TimeoutSeconds, defaults.TimeoutSeconds)
	fill(&merged.Port, defaults.Port)
	fill(&merged.SessionHours, defaults.SessionHours)
	return merged
}

func fill[T comparable](dst *T, fallback T) {
	var zero T
	if *dst == zero {
		*dst = fallback
	}
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}
