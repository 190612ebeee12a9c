// Package server provides the admin UI over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/jd-admin/internal/config"
	"github.com/jonathan/jd-admin/internal/server/middleware"
	"github.com/jonathan/jd-admin/internal/server/ratelimit"
	"github.com/jonathan/jd-admin/internal/views"
)

// shutdownGrace bounds how long Run waits for in-flight requests.
const shutdownGrace = 30 * time.Second

// Server serves the admin UI pages. Each browser session gets its own views.Shell.
type Server struct {
	httpServer  *http.Server
	api         views.Backend
	sessions    *SessionStore
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	pages       *pageSet
	logger      zerolog.Logger
}

// Config is what New needs to assemble a Server.
type Config struct {
	Port      int
	API       views.Backend
	Session   *config.SessionConfig
	RateLimit *ratelimit.Config // nil loads from the environment
	Logger    zerolog.Logger
}

// New wires the page routes, sessions and rate limiting. API and Session are required.
func New(cfg Config) (*Server, error) {
	if cfg.API == nil {
		return nil, fmt.Errorf("server requires a JD service client")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("server requires session configuration")
	}

	pages, err := loadPages()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	s := &Server{
		api:         cfg.API,
		jwtService:  NewJWTService(cfg.Session),
		rateLimiter: ratelimit.NewLimiter(rl),
		pages:       pages,
		logger:      cfg.Logger.With().Str("component", "server").Logger(),
	}
	s.sessions = NewSessionStore(func() *views.Shell {
		return views.NewShell(s.api, cfg.Logger)
	}, s.jwtService.TTL(), s.logger)

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		// Ranking a large folder is slow
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	return s, nil
}

// Handler returns the full middleware chain and routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	pages := http.NewServeMux()
	pages.HandleFunc("GET /{$}", s.withShell(s.handleCreatePage))
	pages.HandleFunc("POST /create/mode", s.withShell(s.handleSelectMode))
	pages.HandleFunc("POST /create/template", s.withShell(s.handleApplyTemplate))
	pages.HandleFunc("POST /create/fields", s.withShell(s.handleSaveFields))
	pages.HandleFunc("POST /create/extract/text", s.withShell(s.handleExtractText))
	pages.HandleFunc("POST /create/extract/file", s.withShell(s.handleExtractFile))
	pages.HandleFunc("POST /create/submit", s.withShell(s.handleSubmit))
	pages.HandleFunc("POST /create/confirm", s.withShell(s.handleConfirm))
	pages.HandleFunc("POST /create/rank", s.withShell(s.handleRank))
	pages.HandleFunc("POST /create/reset", s.withShell(s.handleReset))
	pages.HandleFunc("POST /create/alert/dismiss", s.withShell(s.handleDismissAlert))
	pages.HandleFunc("POST /generated", s.withShell(s.handleEditGenerated))
	pages.HandleFunc("GET /jds", s.withShell(s.handleListPage))
	pages.HandleFunc("POST /jds/{id}/approve", s.withShell(s.handleApprove))
	pages.HandleFunc("GET /ranking", s.withShell(s.handleRankingPage))
	pages.HandleFunc("POST /ranking", s.withShell(s.handleRankingSubmit))
	pages.HandleFunc("GET /api/state", s.withShell(s.handleState))

	mux.Handle("/", middleware.SessionMiddleware(s.jwtService.AsTokenService(), s.jwtService.TTL())(pages))

	return s.withRateLimit(s.withLogging(mux))
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	served := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("listening")
		served <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("admin UI server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Dur("grace", shutdownGrace).Msg("draining connections")
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("admin UI shutdown: %w", err)
	}
	s.logger.Info().Msg("admin UI stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		ev := s.logger.Debug()
		if rec.status >= http.StatusInternalServerError {
			ev = s.logger.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("took", time.Since(began)).
			Msg("handled")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthBody{Status: "ok"})
}

type healthBody struct {
	Status string `json:"status"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Int("status", status).Msg("failed to write JSON body")
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorBody{Error: message})
}
