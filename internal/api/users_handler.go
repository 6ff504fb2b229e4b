package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/partofu/teamdeck/internal/activity"
	"github.com/partofu/teamdeck/internal/auth"
	"github.com/partofu/teamdeck/internal/notification"
	"github.com/partofu/teamdeck/internal/user"
)

// Notifier delivers best-effort notifications. Satisfied by *notification.Store.
type Notifier interface {
	Create(ctx context.Context, in notification.CreateInput)
}

// usersHandler groups user management HTTP handlers.
type usersHandler struct {
	store    UserStore
	notifier Notifier
	recorder Recorder
}

func newUsersHandler(store UserStore, notifier Notifier, recorder Recorder) *usersHandler {
	return &usersHandler{store: store, notifier: notifier, recorder: recorder}
}

// ListUsers handles GET /api/v1/users with an optional ?status= filter.
func (h *usersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "", auth.StatusPending, auth.StatusActive, auth.StatusRejected, auth.StatusInactive:
	default:
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown status filter")
		return
	}

	users, err := h.store.List(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}
	if users == nil {
		users = []*user.User{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

// PatchUser handles PATCH /api/v1/users (admin only). The action field
// selects the lifecycle transition or role change to apply.
func (h *usersHandler) PatchUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64  `json:"user_id"`
		Action string `json:"action"`
		Role   string `json:"role"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "user_id is required")
		return
	}

	var err error
	switch req.Action {
	case "approve":
		err = h.store.SetStatus(r.Context(), req.UserID, auth.StatusActive)
		if err == nil {
			h.notifier.Create(r.Context(), notification.CreateInput{
				UserID:  req.UserID,
				Type:    "account",
				Title:   "Account approved",
				Message: "Your account has been approved. You can now log in.",
			})
		}
	case "reject":
		err = h.store.SetStatus(r.Context(), req.UserID, auth.StatusRejected)
	case "activate":
		err = h.store.SetStatus(r.Context(), req.UserID, auth.StatusActive)
	case "deactivate":
		err = h.store.SetStatus(r.Context(), req.UserID, auth.StatusInactive)
	case "change_role":
		if req.Role != auth.RoleAdmin && req.Role != auth.RoleMember {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "role must be admin or member")
			return
		}
		err = h.store.SetRole(r.Context(), req.UserID, req.Role)
	default:
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown action")
		return
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update user")
		return
	}

	if caller := auth.UserFromContext(r.Context()); caller != nil {
		h.recorder.Record(activity.Entry{
			UserID:     caller.ID,
			Action:     "user_" + req.Action,
			EntityType: "user",
			EntityID:   &req.UserID,
		})
	}
	auditLog(r, "user_"+req.Action, "user", fmt.Sprintf("%d", req.UserID))

	u, err := h.store.GetByID(r.Context(), req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/v1/users (admin only). Admins cannot delete
// their own account.
func (h *usersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "user_id is required")
		return
	}

	caller := auth.UserFromContext(r.Context())
	if caller != nil && caller.ID == req.UserID {
		writeError(w, http.StatusBadRequest, "validation_error", "cannot delete your own account")
		return
	}

	if _, err := h.store.GetByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}

	if err := h.store.Delete(r.Context(), req.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user")
		return
	}

	if caller != nil {
		h.recorder.Record(activity.Entry{
			UserID:     caller.ID,
			Action:     "user_deleted",
			EntityType: "user",
			EntityID:   &req.UserID,
		})
	}
	auditLog(r, "user_delete", "user", fmt.Sprintf("%d", req.UserID))

	w.WriteHeader(http.StatusNoContent)
}
