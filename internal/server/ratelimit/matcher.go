package ratelimit

import (
	"strings"
)

// unlimited is returned for routes that are never limited.
var unlimited = EndpointConfig{Path: "/health", Method: "GET"}

// MatchEndpoint returns the configuration whose pattern matches the request,
// or nil when none does. Exact patterns win over prefix patterns; within a
// kind the first listed wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == unlimited.Path && method == unlimited.Method {
		u := unlimited
		return &u
	}

	reqSegs := splitPath(path)
	for _, prefix := range []bool{false, true} {
		for i := range configs {
			cfg := &configs[i]
			if cfg.Method != "" && cfg.Method != method {
				continue
			}
			if strings.HasSuffix(cfg.Path, "/") != prefix {
				continue
			}
			if matchSegments(splitPath(cfg.Path), reqSegs, prefix) {
				return cfg
			}
		}
	}
	return nil
}

// matchSegments compares a pattern to request segments. Placeholders match
// any one non-empty segment.
func matchSegments(pattern, req []string, prefix bool) bool {
	if prefix {
		if len(req) <= len(pattern) {
			return false
		}
	} else if len(req) != len(pattern) {
		return false
	}

	for i, p := range pattern {
		if isPlaceholder(p) {
			if req[i] == "" {
				return false
			}
			continue
		}
		if p != req[i] {
			return false
		}
	}
	return true
}

func isPlaceholder(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}
