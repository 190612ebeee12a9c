package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/jd-admin/internal/server/ratelimit"
)

// limitedBody is the 429 payload.
type limitedBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	ResetAt    string `json:"reset_at,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// withRateLimit rejects requests over the per-client budget for their route.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if ok {
			next.ServeHTTP(w, r)
			return
		}
		s.tooManyRequests(w, r, info)
	})
}

func (s *Server) tooManyRequests(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	body := limitedBody{
		Error:     "rate_limit_exceeded",
		Message:   "Too many requests. Wait a moment and try again.",
		Limit:     info.Limit,
		Remaining: info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		body.ResetAt = info.ResetTime.UTC().Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		// Round up so clients never retry early
		body.RetryAfter = int(info.RetryAfter/time.Second) + 1
		w.Header().Set("Retry-After", strconv.Itoa(body.RetryAfter))
	}

	s.logger.Warn().
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Dur("retry_after", info.RetryAfter).
		Msg("request throttled")
	s.writeJSON(w, http.StatusTooManyRequests, body)
}

// clientIP keys the limiter on the peer address without its port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
