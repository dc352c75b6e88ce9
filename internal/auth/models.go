package auth

import (
	"database/sql"
	"time"
)

// Role represents user permission levels
type Role string

const (
	RoleResident  Role = "resident"
	RoleManager   Role = "manager"
	RoleSuperuser Role = "superuser"
)

// HomePath is where a freshly logged in user of the role lands
func (r Role) HomePath() string {
	switch r {
	case RoleManager:
		return "/manager/dashboard"
	case RoleSuperuser:
		return "/superuser"
	default:
		return "/"
	}
}

// User is the identity carried by a session. Staff accounts come from the
// configuration and have no roster id.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Role      Role   `json:"type"`
	Name      string `json:"name"`
	Hostel    string `json:"hostel,omitempty"`
	Room      string `json:"room,omitempty"`
	Admission string `json:"admission,omitempty"`
}

// Token is a kitchen display token scoped to one hostel
type Token struct {
	ID         int64      `json:"id"`
	HostelID   string     `json:"hostel"`
	TokenHash  string     `json:"-"` // Never expose
	Label      string     `json:"label"`
	CreatedBy  string     `json:"createdBy"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	AllowedIPs []string   `json:"allowedIps,omitempty"`
}

// TokenWithRaw includes the raw token value (only returned on creation)
type TokenWithRaw struct {
	Token
	RawToken string `json:"token"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
	Staff    bool   `json:"staff"`
}

// TokenCreateRequest represents the request body for creating a token
type TokenCreateRequest struct {
	Hostel     string   `json:"hostel" binding:"required"`
	Label      string   `json:"label" binding:"required"`
	AllowedIPs []string `json:"allowedIps"`
}

// NullableTime helper for scanning nullable time
func ScanNullableTime(n sql.NullTime) *time.Time {
	if n.Valid {
		return &n.Time
	}
	return nil
}
