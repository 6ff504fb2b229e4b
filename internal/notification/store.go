package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for notifications.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new notification store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a notification for a user. Notification delivery is
// best-effort: failures are logged and swallowed so they never fail the
// action that triggered them.
func (s *Store) Create(ctx context.Context, in CreateInput) {
	var link any
	if in.Link != "" {
		link = in.Link
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, type, title, message, link)
		 VALUES ($1, $2, $3, $4, $5)`,
		in.UserID, in.Type, in.Title, in.Message, link,
	)
	if err != nil {
		slog.Error("failed to create notification", "user_id", in.UserID, "type", in.Type, "error", err)
	}
}

// ListForUser returns all notifications for a user, newest first.
func (s *Store) ListForUser(ctx context.Context, userID int64) ([]*Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, type, title, message, COALESCE(link, ''), is_read, created_at
		 FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var list []*Notification
	for rows.Next() {
		n := &Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkRead marks a single notification as read, scoped to the owning user so
// one user cannot touch another's inbox.
func (s *Store) MarkRead(ctx context.Context, userID, notificationID int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every notification of the user as read.
func (s *Store) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// Delete removes a single notification owned by the user.
func (s *Store) Delete(ctx context.Context, userID, notificationID int64) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting notification: %w", err)
	}
	return nil
}

// DeleteAll removes every notification of the user.
func (s *Store) DeleteAll(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deleting notifications: %w", err)
	}
	return nil
}
