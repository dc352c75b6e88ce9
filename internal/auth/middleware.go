package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

const (
	// Context keys
	ContextKeyUser  = "auth_user"
	ContextKeyToken = "auth_token"

	// Headers
	HeaderAuthorization = "Authorization"
)

// Middleware provides authentication and authorization middleware
type Middleware struct {
	tokenStore   *TokenStore
	sessionStore *SessionStore
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokenStore *TokenStore, sessionStore *SessionStore) *Middleware {
	return &Middleware{
		tokenStore:   tokenStore,
		sessionStore: sessionStore,
	}
}

// RequireToken returns a middleware that validates kitchen display bearer tokens
func (m *Middleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(HeaderAuthorization)
		if authHeader == "" {
			common.Abort(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			common.Abort(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		token, err := m.tokenStore.ValidateToken(c.Request.Context(), parts[1])
		if errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrTokenRevoked) {
			common.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		if err != nil {
			_ = c.Error(err)
			common.Abort(c, http.StatusInternalServerError, "failed to validate token")
			return
		}

		if !IsIPAllowed(c.ClientIP(), token.AllowedIPs) {
			common.Abort(c, http.StatusForbidden, "IP address not allowed for this token")
			return
		}

		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// RequireSession returns a middleware that validates the session cookie and
// re-issues it so an active user stays logged in
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := m.sessionStore.GetSessionFromCookie(c)
		if err != nil || raw == "" {
			common.Abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		user, err := m.sessionStore.GetUserFromSession(raw)
		if err != nil {
			m.sessionStore.ClearSessionCookie(c)
			common.Abort(c, http.StatusUnauthorized, ErrInvalidSession.Error())
			return
		}

		if err := m.sessionStore.Login(c, user); err != nil {
			_ = c.Error(err)
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireRole returns a middleware that checks the user has one of roles.
// The superuser passes every role check.
func (m *Middleware) RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUserFromContext(c)
		if user == nil {
			common.Abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}

		if user.Role != RoleSuperuser && !slices.Contains(roles, user.Role) {
			common.Abort(c, http.StatusForbidden, fmt.Sprintf("requires %s role", joinRoles(roles)))
			return
		}

		c.Next()
	}
}

func joinRoles(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *User {
	userVal, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := userVal.(*User)
	if !ok {
		return nil
	}
	return user
}

// GetTokenFromContext retrieves the validated token from the context
func GetTokenFromContext(c *gin.Context) *Token {
	tokenVal, exists := c.Get(ContextKeyToken)
	if !exists {
		return nil
	}
	token, ok := tokenVal.(*Token)
	if !ok {
		return nil
	}
	return token
}
