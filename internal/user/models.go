package user

import "time"

// User represents a registered account. Accounts start in status "pending"
// and must be approved by an admin before they can log in.
type User struct {
	ID                    int64      `json:"id"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	SecondaryPasswordHash string     `json:"-"`
	Name                  string     `json:"name"`
	Role                  string     `json:"role"`   // "admin" or "member"
	Status                string     `json:"status"` // "pending", "active", "rejected" or "inactive"
	AvatarURL             string     `json:"avatar_url,omitempty"`
	IsOnline              bool       `json:"is_online"`
	LastActive            *time.Time `json:"last_active,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// RegisterInput holds the fields required to register a new account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UpdateProfileInput holds optional fields for a partial profile update.
type UpdateProfileInput struct {
	Email     *string `json:"email,omitempty"`
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Session represents an active login session. Only a SHA-256 hash of the
// opaque token is ever stored.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
