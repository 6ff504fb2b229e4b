package task

import "time"

// Task statuses match the kanban board columns.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task is a kanban board item with its assignees and comments aggregated.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"` // "low", "medium" or "high"
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   *int64     `json:"created_by,omitempty"`
	CreatorName string     `json:"creator_name,omitempty"`
	Assignees   []Assignee `json:"assignees"`
	Comments    []Comment  `json:"comments"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Assignee is a user assigned to a task.
type Assignee struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Comment is a user remark attached to a task.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskInput holds the fields required to create a task.
type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeIDs []int64    `json:"assignee_ids,omitempty"`
	CreatedBy   int64      `json:"-"`
}

// UpdateTaskInput holds optional fields for a partial task update.
// A non-nil AssigneeIDs replaces the full assignment set.
type UpdateTaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeIDs *[]int64   `json:"assignee_ids,omitempty"`
}
