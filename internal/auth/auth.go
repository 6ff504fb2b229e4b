package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Roles gate access to administrative actions.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User lifecycle statuses. Only active accounts can hold a usable session.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
	StatusInactive = "inactive"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// User is the authenticated principal resolved from a session token.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SessionLookup resolves session tokens to users and records presence.
// Lookup and presence are deliberately separate operations: the middleware
// invokes both so that resolving a session observably updates last_active,
// while tests can exercise each in isolation.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (*User, error)
	TouchPresence(ctx context.Context, userID int64) error
}

// TokenFromRequest extracts the session token from the session cookie, falling
// back to an Authorization bearer header for non-browser API clients.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// SetSessionCookie writes the session cookie with an expiry matching the
// session's. Secure is controlled by config so local development over plain
// HTTP still works.
func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
