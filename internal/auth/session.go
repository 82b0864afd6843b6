package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the name of the browser cookie carrying the session token.
const SessionCookieName = "cardsync_session"

// DefaultSessionTTL controls how long a session token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// ErrInvalidSession is returned when a session token fails validation.
var ErrInvalidSession = errors.New("invalid session token")

// Session is the authenticated identity carried through a request. The
// Google access token travels with the session so per-user Drive operations
// (delete, upload, image fetch) can act as the user.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

// SessionManager issues and verifies signed session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a SessionManager signing with the given secret.
func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: DefaultSessionTTL}
}

// Issue signs a session token for the given identity.
func (m *SessionManager) Issue(session Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email:       session.Email,
		AccessToken: session.AccessToken,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning the session it carries.
func (m *SessionManager) Verify(tokenString string) (*Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	return &Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		AccessToken: claims.AccessToken,
	}, nil
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a context carrying the given session.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext extracts the session placed by the auth middleware.
// Returns nil when the request is unauthenticated.
func SessionFromContext(ctx context.Context) *Session {
	if v := ctx.Value(sessionKey); v != nil {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}
