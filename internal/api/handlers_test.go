package api

import (
	"net/http"
	"testing"

	"github.com/partofu/teamdeck/internal/auth"
)

// memberEnv returns a test env with one active member logged in.
func memberEnv(t *testing.T) (*testEnv, string) {
	t.Helper()
	env := newTestEnv(t)
	env.backend.addUser("member@example.com", "pass-1", auth.RoleMember, auth.StatusActive)
	return env, env.login(t, "member@example.com", "pass-1")
}

func TestCreateTask_Validation(t *testing.T) {
	env, token := memberEnv(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"priority": "high"}},
		{"blank title", map[string]any{"title": "   "}},
		{"bad priority", map[string]any{"title": "T", "priority": "urgent"}},
		{"bad status", map[string]any{"title": "T", "status": "done"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/tasks", token, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := errorCode(t, rec); got != "validation_error" {
				t.Errorf("expected code validation_error, got %q", got)
			}
		})
	}
}

func TestCreateTask_MalformedBody(t *testing.T) {
	env, token := memberEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/tasks", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty body: expected 400, got %d", rec.Code)
	}
}

func TestUpdateTask_Validation(t *testing.T) {
	env, token := memberEnv(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing task_id", map[string]any{"title": "T"}},
		{"bad priority", map[string]any{"task_id": 1, "priority": "urgent"}},
		{"bad status", map[string]any{"task_id": 1, "status": "done"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPatch, "/api/v1/tasks", token, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
		})
	}
}

func TestDeleteTask_Validation(t *testing.T) {
	env, token := memberEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/tasks", token, map[string]any{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing task_id: expected 422, got %d", rec.Code)
	}
}

func TestAddComment_Validation(t *testing.T) {
	env, token := memberEnv(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing task_id", map[string]any{"content": "hi"}},
		{"missing content", map[string]any{"task_id": 1}},
		{"blank content", map[string]any{"task_id": 1, "content": "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/tasks/comments", token, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
		})
	}
}

func TestPatchNotifications_Validation(t *testing.T) {
	env, token := memberEnv(t)

	// Neither all nor notification_id selects anything.
	rec := env.do(t, http.MethodPatch, "/api/v1/notifications", token, map[string]any{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/notifications", token, map[string]any{})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("delete: expected 422, got %d", rec.Code)
	}
}

func TestListActivity_Validation(t *testing.T) {
	env, token := memberEnv(t)

	for _, limit := range []string{"abc", "0", "-5"} {
		rec := env.do(t, http.MethodGet, "/api/v1/activity?limit="+limit, token, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("limit=%s: expected 422, got %d", limit, rec.Code)
		}
	}
}

func TestPatchSettings_Validation(t *testing.T) {
	env, token := memberEnv(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"short new password", map[string]any{"current_password": "pass-1", "new_password": "abc"}},
		{"bad email", map[string]any{"email": "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPatch, "/api/v1/settings", token, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCreatePackage_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.backend.addUser("admin@example.com", "admin-pass", auth.RoleAdmin, auth.StatusActive)
	token := env.login(t, "admin@example.com", "admin-pass")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"category": "web"}},
		{"missing category", map[string]any{"name": "Starter"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/packages", token, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
