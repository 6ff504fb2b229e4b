package activity

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidCursor is returned by List when the pagination cursor cannot be
// decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// Store provides database operations for the activity log.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new activity store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// BatchInsert writes a slice of entries in a single multi-row INSERT.
// It is a no-op when entries is empty.
func (s *Store) BatchInsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	const cols = 6
	args := make([]any, 0, len(entries)*cols)
	rows := make([]string, 0, len(entries))

	for i, e := range entries {
		base := i * cols
		rows = append(rows, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		args = append(args, e.UserID, e.Action, e.EntityType, e.EntityID, e.Details, createdAt)
	}

	query := `INSERT INTO activity_logs (user_id, action, entity_type, entity_id, details, created_at) VALUES ` +
		strings.Join(rows, ", ")

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting activity entries: %w", err)
	}
	return nil
}

// List returns a page of activity entries newest first, with the acting
// user's name joined in. It returns the entries, the next cursor (empty when
// exhausted), and any error.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Entry, string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	const selectEntry = `SELECT al.id, COALESCE(al.user_id, 0), COALESCE(u.name, ''), al.action,
		 al.entity_type, al.entity_id, COALESCE(al.details, ''), al.created_at
		 FROM activity_logs al LEFT JOIN users u ON al.user_id = u.id`

	var rows pgx.Rows
	var err error

	if params.Cursor != "" {
		cursorTime, cursorID, cerr := decodeCursor(params.Cursor)
		if cerr != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidCursor, cerr)
		}
		rows, err = s.pool.Query(ctx,
			selectEntry+`
			 WHERE (al.created_at, al.id) < ($1, $2)
			 ORDER BY al.created_at DESC, al.id DESC
			 LIMIT $3`,
			cursorTime, cursorID, limit+1,
		)
	} else {
		rows, err = s.pool.Query(ctx,
			selectEntry+`
			 ORDER BY al.created_at DESC, al.id DESC
			 LIMIT $1`,
			limit+1,
		)
	}
	if err != nil {
		return nil, "", fmt.Errorf("listing activity: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.Action,
			&e.EntityType, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("scanning activity row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterating activity rows: %w", err)
	}

	var nextCursor string
	if len(entries) > limit {
		last := entries[limit-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
		entries = entries[:limit]
	}

	return entries, nextCursor, nil
}

// encodeCursor produces a base64 string from a created_at timestamp and id.
func encodeCursor(createdAt time.Time, id int64) string {
	raw := createdAt.Format(time.RFC3339Nano) + "|" + fmt.Sprintf("%d", id)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// decodeCursor parses a base64 cursor back into its created_at and id parts.
func decodeCursor(cursor string) (time.Time, int64, error) {
	data, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("decoding cursor base64: %w", err)
	}

	parts := strings.SplitN(string(data), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parsing cursor time: %w", err)
	}

	var id int64
	if _, err := fmt.Sscanf(parts[1], "%d", &id); err != nil {
		return time.Time{}, 0, fmt.Errorf("parsing cursor id: %w", err)
	}

	return t, id, nil
}
