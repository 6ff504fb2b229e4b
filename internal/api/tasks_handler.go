package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/partofu/teamdeck/internal/activity"
	"github.com/partofu/teamdeck/internal/auth"
	"github.com/partofu/teamdeck/internal/notification"
	"github.com/partofu/teamdeck/internal/task"
)

// tasksHandler groups kanban task HTTP handlers.
type tasksHandler struct {
	store    *task.Store
	notifier Notifier
	recorder Recorder
}

func newTasksHandler(store *task.Store, notifier Notifier, recorder Recorder) *tasksHandler {
	return &tasksHandler{store: store, notifier: notifier, recorder: recorder}
}

func validPriority(p string) bool {
	return p == "" || p == "low" || p == "medium" || p == "high"
}

func validStatus(s string) bool {
	return s == "" || s == task.StatusTodo || s == task.StatusInProgress || s == task.StatusCompleted
}

// ListTasks handles GET /api/v1/tasks.
func (h *tasksHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
	})
}

// CreateTask handles POST /api/v1/tasks. Assignees are notified.
func (h *tasksHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req task.CreateTaskInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "title is required")
		return
	}
	if !validPriority(req.Priority) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "priority must be low, medium or high")
		return
	}
	if !validStatus(req.Status) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "status must be todo, in_progress or completed")
		return
	}
	req.CreatedBy = caller.ID

	id, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create task")
		return
	}

	for _, uid := range req.AssigneeIDs {
		if uid == caller.ID {
			continue
		}
		h.notifier.Create(r.Context(), notification.CreateInput{
			UserID:  uid,
			Type:    "task",
			Title:   "New task assigned",
			Message: fmt.Sprintf("%s assigned you to %q", caller.Name, req.Title),
			Link:    fmt.Sprintf("/tasks/%d", id),
		})
	}

	h.recorder.Record(activity.Entry{
		UserID:     caller.ID,
		Action:     "task_created",
		EntityType: "task",
		EntityID:   &id,
		Details:    req.Title,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id": id,
	})
}

// UpdateTask handles PATCH /api/v1/tasks.
func (h *tasksHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req struct {
		TaskID int64 `json:"task_id"`
		task.UpdateTaskInput
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.TaskID == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "task_id is required")
		return
	}
	if req.Priority != nil && !validPriority(*req.Priority) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "priority must be low, medium or high")
		return
	}
	if req.Status != nil && !validStatus(*req.Status) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "status must be todo, in_progress or completed")
		return
	}

	if err := h.store.Update(r.Context(), req.TaskID, req.UpdateTaskInput); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update task")
		return
	}

	action := "task_updated"
	if req.Status != nil && *req.Status == task.StatusCompleted {
		action = "task_completed"
	}
	h.recorder.Record(activity.Entry{
		UserID:     caller.ID,
		Action:     action,
		EntityType: "task",
		EntityID:   &req.TaskID,
	})

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTask handles DELETE /api/v1/tasks. Only an admin or the task's
// creator may delete it.
func (h *tasksHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req struct {
		TaskID int64 `json:"task_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.TaskID == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "task_id is required")
		return
	}

	if !caller.IsAdmin() {
		creator, err := h.store.GetCreator(r.Context(), req.TaskID)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		if creator != caller.ID {
			writeError(w, http.StatusForbidden, "forbidden", "only an admin or the task creator can delete a task")
			return
		}
	}

	if err := h.store.Delete(r.Context(), req.TaskID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete task")
		return
	}

	h.recorder.Record(activity.Entry{
		UserID:     caller.ID,
		Action:     "task_deleted",
		EntityType: "task",
		EntityID:   &req.TaskID,
	})

	w.WriteHeader(http.StatusNoContent)
}

// AddComment handles POST /api/v1/tasks/comments.
func (h *tasksHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req struct {
		TaskID  int64  `json:"task_id"`
		Content string `json:"content"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.TaskID == 0 || req.Content == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "task_id and content are required")
		return
	}

	if err := h.store.AddComment(r.Context(), req.TaskID, caller.ID, req.Content); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to add comment")
		return
	}

	h.recorder.Record(activity.Entry{
		UserID:     caller.ID,
		Action:     "task_commented",
		EntityType: "task",
		EntityID:   &req.TaskID,
	})

	w.WriteHeader(http.StatusCreated)
}
