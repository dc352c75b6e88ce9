package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"MessAPI/internal/v0/common"

	"github.com/gin-gonic/gin"
)

// CredentialStore looks residents up by admission number. It returns the
// session identity and the stored password hash, or a nil user when no
// resident has that admission number.
type CredentialStore interface {
	ResidentCredentials(ctx context.Context, admission string) (*User, string, error)
}

// HostelDirectory reports whether a hostel id is known
type HostelDirectory interface {
	HostelExists(ctx context.Context, hostelID string) (bool, error)
}

// Handler handles authentication endpoints
type Handler struct {
	residents    CredentialStore
	hostels      HostelDirectory
	staff        []StaffAccount
	sessionStore *SessionStore
	tokenStore   *TokenStore
}

// NewHandler creates a new auth handler. Staff accounts are tried in order.
func NewHandler(
	residents CredentialStore,
	hostels HostelDirectory,
	sessionStore *SessionStore,
	tokenStore *TokenStore,
	staff ...StaffAccount,
) *Handler {
	return &Handler{
		residents:    residents,
		hostels:      hostels,
		staff:        staff,
		sessionStore: sessionStore,
		tokenStore:   tokenStore,
	}
}

// Login authenticates staff or a resident and sets the session cookie
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "Invalid credentials")
		return
	}

	var user *User
	if req.Staff {
		for _, account := range h.staff {
			if account.Matches(req.Login, req.Password) {
				user = account.User()
				break
			}
		}
		if user == nil {
			common.Fail(c, http.StatusUnauthorized, "Wrong credentials")
			return
		}
	}

	// Residents log in with their admission number
	if user == nil {
		resident, hash, err := h.residents.ResidentCredentials(c.Request.Context(), strings.TrimSpace(req.Login))
		if err != nil {
			_ = c.Error(err)
			common.Fail(c, http.StatusInternalServerError, "Something went wrong.")
			return
		}
		if resident == nil {
			common.Fail(c, http.StatusUnauthorized, "Couldn't find a resident with the credentials")
			return
		}
		ok, err := VerifyPassword(req.Password, hash)
		if err != nil {
			_ = c.Error(err)
		}
		if !ok {
			common.Fail(c, http.StatusUnauthorized, "Wrong credentials")
			return
		}
		user = resident
	}

	if err := h.sessionStore.Login(c, user); err != nil {
		_ = c.Error(err)
		common.Fail(c, http.StatusInternalServerError, "failed to create session")
		return
	}

	common.Success(c, http.StatusOK, gin.H{
		"user":     user,
		"redirect": user.Role.HomePath(),
	})
}

// Logout clears the session cookie
// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	h.sessionStore.ClearSessionCookie(c)
	common.Success(c, http.StatusOK, nil)
}

// Me returns the current session user
// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	common.Success(c, http.StatusOK, GetUserFromContext(c))
}

// CreateToken issues a kitchen display token
// POST /tokens
func (h *Handler) CreateToken(c *gin.Context) {
	var req TokenCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := h.hostels.HostelExists(c.Request.Context(), req.Hostel)
	if err != nil {
		_ = c.Error(err)
		common.Fail(c, http.StatusInternalServerError, "failed to look up hostel")
		return
	}
	if !exists {
		common.Fail(c, http.StatusBadRequest, "Invalid hostel name")
		return
	}

	user := GetUserFromContext(c)
	token, err := h.tokenStore.CreateToken(c.Request.Context(), req.Hostel, req.Label, string(user.Role), req.AllowedIPs)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	common.Success(c, http.StatusCreated, token)
}

// ListTokens lists the tokens of a hostel
// GET /tokens?hostel=
func (h *Handler) ListTokens(c *gin.Context) {
	hostel := c.Query("hostel")
	if hostel == "" {
		common.Fail(c, http.StatusBadRequest, "hostel is required")
		return
	}
	tokens, err := h.tokenStore.ListTokens(c.Request.Context(), hostel)
	if err != nil {
		_ = c.Error(err)
		common.Fail(c, http.StatusInternalServerError, "failed to list tokens")
		return
	}
	common.Success(c, http.StatusOK, tokens)
}

// RevokeToken revokes a token
// DELETE /tokens/:id
func (h *Handler) RevokeToken(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "invalid token id")
		return
	}
	revoked, err := h.tokenStore.RevokeToken(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		common.Fail(c, http.StatusInternalServerError, "failed to revoke token")
		return
	}
	if !revoked {
		common.Fail(c, http.StatusNotFound, "token not found")
		return
	}
	common.Success(c, http.StatusOK, nil)
}
