package api

import (
	"net/http"

	"github.com/partofu/teamdeck/internal/auth"
	"github.com/partofu/teamdeck/internal/notification"
)

// notificationsHandler groups notification inbox HTTP handlers. Every
// operation is scoped to the calling user.
type notificationsHandler struct {
	store *notification.Store
}

func newNotificationsHandler(store *notification.Store) *notificationsHandler {
	return &notificationsHandler{store: store}
}

// ListNotifications handles GET /api/v1/notifications.
func (h *notificationsHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	list, err := h.store.ListForUser(r.Context(), caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list notifications")
		return
	}
	if list == nil {
		list = []*notification.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": list,
	})
}

// PatchNotifications handles PATCH /api/v1/notifications. With all=true the
// whole inbox is marked read, otherwise notification_id selects one entry.
func (h *notificationsHandler) PatchNotifications(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req struct {
		NotificationID int64 `json:"notification_id"`
		All            bool  `json:"all"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	var err error
	switch {
	case req.All:
		err = h.store.MarkAllRead(r.Context(), caller.ID)
	case req.NotificationID != 0:
		err = h.store.MarkRead(r.Context(), caller.ID, req.NotificationID)
	default:
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "notification_id or all is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update notifications")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteNotifications handles DELETE /api/v1/notifications, with the same
// all/notification_id selection as PATCH.
func (h *notificationsHandler) DeleteNotifications(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req struct {
		NotificationID int64 `json:"notification_id"`
		All            bool  `json:"all"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	var err error
	switch {
	case req.All:
		err = h.store.DeleteAll(r.Context(), caller.ID)
	case req.NotificationID != 0:
		err = h.store.Delete(r.Context(), caller.ID, req.NotificationID)
	default:
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "notification_id or all is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete notifications")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
