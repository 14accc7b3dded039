// Package auth issues and validates portal session tokens. The session is
// the single source of truth for the current user: handlers read it from
// the request context instead of reaching into storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// Session identifies the logged-in portal user across a request.
type Session struct {
	UserID   int64
	Username string
	Role     string
	CardCode string // ERP customer code the user is scoped to
}

type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	CardCode string `json:"cardCode"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for the session.
func (i *TokenIssuer) Issue(s Session) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username: s.Username,
		Role:     s.Role,
		CardCode: s.CardCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", s.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Parse validates a token and reconstructs the session.
func (i *TokenIssuer) Parse(token string) (Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return Session{}, ErrInvalidToken
	}

	return Session{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
		CardCode: claims.CardCode,
	}, nil
}

type contextKey struct{}

// WithSession attaches the session to the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached by the auth middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
