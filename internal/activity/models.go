package activity

import "time"

// Entry is a single activity log record. UserName is joined from users at
// read time and empty for deleted accounts.
type Entry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   *int64    `json:"entity_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListParams controls cursor-based pagination of the activity feed.
type ListParams struct {
	Cursor string
	Limit  int
}
