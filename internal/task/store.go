package task

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for tasks, assignments and comments.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new task store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// listQuery aggregates assignees and comments per task so the board loads in
// one round trip.
const listQuery = `
	SELECT t.id, t.title, COALESCE(t.description, ''), t.priority, t.status,
	       t.due_date, t.created_by, COALESCE(u.name, ''), t.created_at, t.updated_at,
	       COALESCE(
	         json_agg(
	           DISTINCT jsonb_build_object('id', ta.user_id, 'name', au.name)
	         ) FILTER (WHERE ta.user_id IS NOT NULL), '[]'
	       ) AS assignees,
	       COALESCE(
	         json_agg(
	           DISTINCT jsonb_build_object('id', tc.id, 'content', tc.content,
	             'user_name', cu.name, 'created_at', tc.created_at)
	         ) FILTER (WHERE tc.id IS NOT NULL), '[]'
	       ) AS comments
	FROM tasks t
	LEFT JOIN users u ON t.created_by = u.id
	LEFT JOIN task_assignments ta ON t.id = ta.task_id
	LEFT JOIN users au ON ta.user_id = au.id
	LEFT JOIN task_comments tc ON t.id = tc.task_id
	LEFT JOIN users cu ON tc.user_id = cu.id
	GROUP BY t.id, u.name
	ORDER BY t.created_at DESC`

// List returns all tasks with assignees and comments, newest first.
func (s *Store) List(ctx context.Context) ([]*Task, error) {
	rows, err := s.pool.Query(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t := &Task{}
		var assigneesJSON, commentsJSON []byte
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status,
			&t.DueDate, &t.CreatedBy, &t.CreatorName, &t.CreatedAt, &t.UpdatedAt,
			&assigneesJSON, &commentsJSON); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		if err := json.Unmarshal(assigneesJSON, &t.Assignees); err != nil {
			return nil, fmt.Errorf("unmarshaling assignees: %w", err)
		}
		if err := json.Unmarshal(commentsJSON, &t.Comments); err != nil {
			return nil, fmt.Errorf("unmarshaling comments: %w", err)
		}
		if t.Assignees == nil {
			t.Assignees = []Assignee{}
		}
		if t.Comments == nil {
			t.Comments = []Comment{}
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Create inserts a task and its assignments, returning the new task id.
func (s *Store) Create(ctx context.Context, in CreateTaskInput) (int64, error) {
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	status := in.Status
	if status == "" {
		status = StatusTodo
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tasks (title, description, priority, status, due_date, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		in.Title, in.Description, priority, status, in.DueDate, in.CreatedBy,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating task: %w", err)
	}

	if err := s.assign(ctx, id, in.AssigneeIDs); err != nil {
		return 0, err
	}
	return id, nil
}

// GetCreator returns the id of the user who created the task, used for the
// delete permission check.
func (s *Store) GetCreator(ctx context.Context, id int64) (int64, error) {
	var createdBy *int64
	err := s.pool.QueryRow(ctx,
		`SELECT created_by FROM tasks WHERE id = $1`, id).Scan(&createdBy)
	if err != nil {
		return 0, fmt.Errorf("getting task creator: %w", err)
	}
	if createdBy == nil {
		return 0, nil
	}
	return *createdBy, nil
}

// Update performs a partial update on a task. A non-nil AssigneeIDs replaces
// the full assignment set.
func (s *Store) Update(ctx context.Context, id int64, in UpdateTaskInput) error {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}
	if in.Priority != nil {
		setClauses = append(setClauses, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, *in.Priority)
		argIdx++
	}
	if in.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *in.Status)
		argIdx++
	}
	if in.DueDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("due_date = $%d", argIdx))
		args = append(args, *in.DueDate)
		argIdx++
	}

	if len(setClauses) > 0 {
		setClauses = append(setClauses, "updated_at = now()")
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`,
			strings.Join(setClauses, ", "), argIdx)
		if _, err := s.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
	}

	if in.AssigneeIDs != nil {
		if _, err := s.pool.Exec(ctx,
			`DELETE FROM task_assignments WHERE task_id = $1`, id); err != nil {
			return fmt.Errorf("clearing task assignments: %w", err)
		}
		if err := s.assign(ctx, id, *in.AssigneeIDs); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes a task by id. Assignments and comments cascade.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// AddComment attaches a comment to a task.
func (s *Store) AddComment(ctx context.Context, taskID, userID int64, content string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO task_comments (task_id, user_id, content) VALUES ($1, $2, $3)`,
		taskID, userID, content,
	)
	if err != nil {
		return fmt.Errorf("adding comment: %w", err)
	}
	return nil
}

// StatusCounts holds task counts broken down by board column.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// CountByStatus returns total and per-status task counts in one query.
func (s *Store) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var c StatusCounts
	err := s.pool.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE status = 'todo'),
		        count(*) FILTER (WHERE status = 'in_progress'),
		        count(*) FILTER (WHERE status = 'completed')
		 FROM tasks`,
	).Scan(&c.Total, &c.Todo, &c.InProgress, &c.Completed)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("counting tasks: %w", err)
	}
	return c, nil
}

func (s *Store) assign(ctx context.Context, taskID int64, userIDs []int64) error {
	for _, uid := range userIDs {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO task_assignments (task_id, user_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			taskID, uid,
		)
		if err != nil {
			return fmt.Errorf("assigning task: %w", err)
		}
	}
	return nil
}
