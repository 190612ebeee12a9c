package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a route.
type EndpointConfig struct {
	Path   string        // Route pattern; "{name}" matches one segment, a trailing "/" matches any suffix
	Method string        // HTTP method, or "" for any
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig reads RATE_LIMIT_* variables. Unset or unparsable values keep their defaults.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr("RATE_LIMIT_DEFAULT_LIMIT", 600, strconv.Atoi),
		DefaultWindow:   envOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		IdleTTL:         envOr("RATE_LIMIT_IDLE_TTL", time.Hour, time.ParseDuration),
		Whitelist:       ipSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route limits of the admin UI.
// Routes that reach the JD service's generation or ranking work are the
// strictest; everything else falls through to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Generation and ranking
		{Path: "/create/submit", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/create/rank", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},
		{Path: "/ranking", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},

		// Extraction
		{Path: "/create/extract/", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Status changes
		{Path: "/create/confirm", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/jds/{id}/approve", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

// ipSet splits a comma-separated address list, dropping blanks.
func ipSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' }) {
		if addr := strings.TrimSpace(field); addr != "" {
			set[addr] = true
		}
	}
	return set
}
