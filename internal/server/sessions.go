package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/jd-admin/internal/views"
)

// SessionStore keeps one view shell per browser session.
type SessionStore struct {
	newShell func() *views.Shell
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	mu      sync.Mutex
	entries map[uuid.UUID]*sessionEntry
}

type sessionEntry struct {
	shell    *views.Shell
	lastSeen time.Time
	initOnce sync.Once
}

// NewSessionStore returns a store whose sessions expire after ttl of inactivity.
func NewSessionStore(newShell func() *views.Shell, ttl time.Duration, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		newShell: newShell,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		entries:  make(map[uuid.UUID]*sessionEntry),
	}
}

// Get returns the shell for id, creating and initialising it on first use.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) *views.Shell {
	s.mu.Lock()
	s.sweepLocked()
	e, ok := s.entries[id]
	if !ok {
		e = &sessionEntry{shell: s.newShell()}
		s.entries[id] = e
		s.logger.Debug().Str("session_id", id.String()).Msg("session started")
	}
	e.lastSeen = s.now()
	s.mu.Unlock()

	e.initOnce.Do(func() {
		if err := e.shell.Init(ctx); err != nil {
			s.logger.Warn().Err(err).Str("session_id", id.String()).Msg("session init incomplete")
		}
	})
	return e.shell
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *SessionStore) sweepLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
