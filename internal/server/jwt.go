package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/jd-admin/internal/config"
	"github.com/jonathan/jd-admin/internal/server/middleware"
)

// Claims is the payload of the session cookie.
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// GetSessionID satisfies middleware.SessionIDGetter.
func (c *Claims) GetSessionID() uuid.UUID {
	return c.SessionID
}

var (
	errNoToken   = errors.New("no session token")
	errNoSession = errors.New("token has no session ID")
)

// JWTService signs and checks HS256 session cookies.
type JWTService struct {
	config *config.SessionConfig
	now    func() time.Time
}

func NewJWTService(cfg *config.SessionConfig) *JWTService {
	return &JWTService{config: cfg, now: time.Now}
}

// TTL is how long an issued token stays valid.
func (s *JWTService) TTL() time.Duration {
	return time.Duration(s.config.ExpirationHours) * time.Hour
}

func (s *JWTService) key() []byte {
	return []byte(s.config.Secret)
}

// GenerateToken issues a token naming sessionID, valid from now for TTL.
func (s *JWTService) GenerateToken(sessionID uuid.UUID) (string, error) {
	issued := jwt.NewNumericDate(s.now())
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  issued,
			NotBefore: issued,
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.TTL())),
		},
	}).SignedString(s.key())
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses raw and returns its claims. Only HS256 is accepted.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	if raw == "" {
		return nil, errNoToken
	}

	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.key(), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("token expired: %w", err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("malformed token: %w", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("invalid token signature: %w", err)
	default:
		return nil, fmt.Errorf("rejected session token: %w", err)
	}

	if claims.SessionID == uuid.Nil {
		return nil, errNoSession
	}
	return claims, nil
}

// AsTokenService adapts the service to the middleware without an import cycle.
func (s *JWTService) AsTokenService() middleware.TokenService {
	return &jwtTokenService{service: s}
}

type jwtTokenService struct {
	service *JWTService
}

func (a *jwtTokenService) GenerateToken(sessionID uuid.UUID) (string, error) {
	return a.service.GenerateToken(sessionID)
}

func (a *jwtTokenService) ValidateToken(raw string) (middleware.SessionIDGetter, error) {
	claims, err := a.service.ValidateToken(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
