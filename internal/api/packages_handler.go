package api

import (
	"net/http"
	"strings"

	"github.com/partofu/teamdeck/internal/activity"
	"github.com/partofu/teamdeck/internal/auth"
	"github.com/partofu/teamdeck/internal/catalog"
)

// packagesHandler groups package catalog HTTP handlers.
type packagesHandler struct {
	store    *catalog.Store
	recorder Recorder
}

func newPackagesHandler(store *catalog.Store, recorder Recorder) *packagesHandler {
	return &packagesHandler{store: store, recorder: recorder}
}

// ListPackages handles GET /api/v1/packages.
func (h *packagesHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list packages")
		return
	}
	if packages == nil {
		packages = []*catalog.Package{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"packages": packages,
	})
}

// CreatePackage handles POST /api/v1/packages (admin only).
func (h *packagesHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req catalog.CreatePackageInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Category == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name and category are required")
		return
	}

	id, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create package")
		return
	}

	h.recorder.Record(activity.Entry{
		UserID:     caller.ID,
		Action:     "package_created",
		EntityType: "package",
		EntityID:   &id,
		Details:    req.Name,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id": id,
	})
}

// UpdatePackage handles PATCH /api/v1/packages (admin only).
func (h *packagesHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req struct {
		PackageID int64 `json:"package_id"`
		catalog.UpdatePackageInput
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.PackageID == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "package_id is required")
		return
	}

	if err := h.store.Update(r.Context(), req.PackageID, req.UpdatePackageInput); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update package")
		return
	}

	h.recorder.Record(activity.Entry{
		UserID:     caller.ID,
		Action:     "package_updated",
		EntityType: "package",
		EntityID:   &req.PackageID,
	})

	w.WriteHeader(http.StatusNoContent)
}

// DeletePackage handles DELETE /api/v1/packages (admin only).
func (h *packagesHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req struct {
		PackageID int64 `json:"package_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.PackageID == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "package_id is required")
		return
	}

	if err := h.store.Delete(r.Context(), req.PackageID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete package")
		return
	}

	h.recorder.Record(activity.Entry{
		UserID:     caller.ID,
		Action:     "package_deleted",
		EntityType: "package",
		EntityID:   &req.PackageID,
	})

	w.WriteHeader(http.StatusNoContent)
}
