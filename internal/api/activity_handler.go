package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/partofu/teamdeck/internal/activity"
)

// maxActivityPageSize caps the activity feed page size.
const maxActivityPageSize = 200

// activityHandler serves the cursor-paginated activity feed.
type activityHandler struct {
	store *activity.Store
}

func newActivityHandler(store *activity.Store) *activityHandler {
	return &activityHandler{store: store}
}

// ListActivity handles GET /api/v1/activity?cursor=&limit=.
func (h *activityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	params := activity.ListParams{
		Cursor: r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "limit must be a positive integer")
			return
		}
		if limit > maxActivityPageSize {
			limit = maxActivityPageSize
		}
		params.Limit = limit
	}

	entries, nextCursor, err := h.store.List(r.Context(), params)
	if err != nil {
		if errors.Is(err, activity.ErrInvalidCursor) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "invalid cursor")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list activity")
		return
	}
	if entries == nil {
		entries = []*activity.Entry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activities":  entries,
		"next_cursor": nextCursor,
	})
}
