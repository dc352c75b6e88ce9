package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "session"

	// DefaultSessionDuration is the default session lifetime
	DefaultSessionDuration = 7 * 24 * time.Hour // 7 days
)

var ErrInvalidSession = errors.New("session expired or invalid")

type sessionClaims struct {
	User User `json:"user"`
	jwt.RegisteredClaims
}

// SessionStore issues and verifies the signed session cookie. Sessions are
// stateless: the cookie is an HS256 JWT carrying the user.
type SessionStore struct {
	signKey         []byte
	sessionDuration time.Duration
	secureCookie    bool
	now             func() time.Time
}

// NewSessionStore creates a new session store
func NewSessionStore(signSecret string, sessionDuration time.Duration, secureCookie bool) *SessionStore {
	if sessionDuration == 0 {
		sessionDuration = DefaultSessionDuration
	}
	return &SessionStore{
		signKey:         []byte(signSecret),
		sessionDuration: sessionDuration,
		secureCookie:    secureCookie,
		now:             time.Now,
	}
}

// CreateSession signs a session for user valid for the configured duration
func (s *SessionStore) CreateSession(user *User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionDuration)
	claims := sessionClaims{
		User: *user,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

// GetUserFromSession verifies the signature and expiry and returns the user
func (s *SessionStore) GetUserFromSession(token string) (*User, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.signKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.User.Role == "" {
		return nil, ErrInvalidSession
	}
	return &claims.User, nil
}

// SetSessionCookie sets the session cookie on the response
func (s *SessionStore) SetSessionCookie(c *gin.Context, token string) {
	maxAge := int(s.sessionDuration.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		token,
		maxAge,
		"/",
		"",
		s.secureCookie,
		true, // httpOnly
	)
}

// ClearSessionCookie removes the session cookie
func (s *SessionStore) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		s.secureCookie,
		true,
	)
}

// GetSessionFromCookie retrieves the session token from the request cookie
func (s *SessionStore) GetSessionFromCookie(c *gin.Context) (string, error) {
	return c.Cookie(SessionCookieName)
}

// Login creates a session for user and sets the cookie
func (s *SessionStore) Login(c *gin.Context, user *User) error {
	token, _, err := s.CreateSession(user)
	if err != nil {
		return err
	}
	s.SetSessionCookie(c, token)
	return nil
}
