package config

import (
	"fmt"

	"github.com/google/uuid"
)

// SessionConfig holds configuration for signing admin session cookies.
type SessionConfig struct {
	Secret          string
	ExpirationHours int
	Ephemeral       bool // Secret was generated for this process only
}

// NewSessionConfig derives the session settings from c. Without a configured
// secret a random one is generated, so sessions end when the process exits.
func (c *Config) NewSessionConfig() (*SessionConfig, error) {
	cfg := &SessionConfig{
		Secret:          c.SessionSecret,
		ExpirationHours: c.SessionHours,
	}
	if cfg.ExpirationHours == 0 {
		cfg.ExpirationHours = DefaultSessionHours
	}
	if cfg.Secret == "" {
		cfg.Secret = uuid.NewString() + uuid.NewString()
		cfg.Ephemeral = true
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *SessionConfig) normalize() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("%s must be at least 16 characters", EnvSessionSecret)
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("%s must be at least 1 hour, got: %d", EnvSessionHours, c.ExpirationHours)
	}
	return nil
}
