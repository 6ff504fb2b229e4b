package notification

import "time"

// Notification is a per-user message surfaced in the dashboard inbox.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput holds the fields for a new notification.
type CreateInput struct {
	UserID  int64
	Type    string
	Title   string
	Message string
	Link    string
}
