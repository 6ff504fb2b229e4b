package api

import (
	"net/http"

	"github.com/partofu/teamdeck/internal/auth"
	"github.com/partofu/teamdeck/internal/catalog"
	"github.com/partofu/teamdeck/internal/task"
)

// statsHandler serves the dashboard counters.
type statsHandler struct {
	users    UserStore
	tasks    *task.Store
	packages *catalog.Store
}

func newStatsHandler(users UserStore, tasks *task.Store, packages *catalog.Store) *statsHandler {
	return &statsHandler{users: users, tasks: tasks, packages: packages}
}

// GetStats handles GET /api/v1/stats. Counters for unwired stores report
// zero rather than failing the whole response.
func (h *statsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	activeUsers, err := h.users.CountByStatus(r.Context(), auth.StatusActive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load stats")
		return
	}
	pendingUsers, err := h.users.CountByStatus(r.Context(), auth.StatusPending)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load stats")
		return
	}

	var taskCounts task.StatusCounts
	if h.tasks != nil {
		taskCounts, err = h.tasks.CountByStatus(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to load stats")
			return
		}
	}

	var activePackages int64
	if h.packages != nil {
		activePackages, err = h.packages.CountActive(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to load stats")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": map[string]int64{
			"active":  activeUsers,
			"pending": pendingUsers,
		},
		"tasks":           taskCounts,
		"active_packages": activePackages,
	})
}
