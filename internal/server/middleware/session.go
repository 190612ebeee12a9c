// Package middleware provides HTTP middleware for admin UI sessions.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for the browser session ID.
const sessionIDKey ContextKey = "sessionID"

// CookieName is the cookie carrying the signed session token.
const CookieName = "jd_admin_session"

// SessionIDGetter is implemented by token claims that carry a session ID.
type SessionIDGetter interface {
	GetSessionID() uuid.UUID
}

// TokenService signs and verifies session tokens.
type TokenService interface {
	GenerateToken(sessionID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (SessionIDGetter, error)
}

// SessionMiddleware attaches a session ID to every request. A missing or
// invalid cookie starts a new session and sets a fresh cookie.
func SessionMiddleware(tokens TokenService, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
				if claims, err := tokens.ValidateToken(cookie.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), claims.GetSessionID())))
					return
				}
			}

			sessionID := uuid.New()
			token, err := tokens.GenerateToken(sessionID)
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

// WithSessionID returns ctx carrying sessionID.
func WithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionID extracts the session ID from the request context.
func GetSessionID(r *http.Request) (uuid.UUID, error) {
	sessionID, ok := r.Context().Value(sessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("session ID not found in request context")
	}
	return sessionID, nil
}
