package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/partofu/teamdeck/internal/auth"
	"github.com/partofu/teamdeck/internal/user"
)

// settingsHandler serves self-service profile and password updates.
type settingsHandler struct {
	store UserStore
}

func newSettingsHandler(store UserStore) *settingsHandler {
	return &settingsHandler{store: store}
}

// PatchSettings handles PATCH /api/v1/settings. Profile fields and a
// password change can be combined in one request; a password change requires
// the current password.
func (h *settingsHandler) PatchSettings(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())

	var req struct {
		Name            *string `json:"name"`
		Email           *string `json:"email"`
		AvatarURL       *string `json:"avatar_url"`
		CurrentPassword string  `json:"current_password"`
		NewPassword     string  `json:"new_password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.NewPassword != "" {
		if len(req.NewPassword) < 6 {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "password must be at least 6 characters")
			return
		}
		if req.CurrentPassword == "" {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "current password is required")
			return
		}

		full, err := h.store.GetByID(r.Context(), caller.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to load account")
			return
		}
		if !auth.VerifyPassword(req.CurrentPassword, full.PasswordHash) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "current password is incorrect")
			return
		}
		if err := h.store.SetPassword(r.Context(), caller.ID, req.NewPassword); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to change password")
			return
		}
	}

	input := user.UpdateProfileInput{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	}
	if req.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*req.Email))
		if !strings.Contains(normalized, "@") {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is not valid")
			return
		}
		input.Email = &normalized
	}

	updated, err := h.store.UpdateProfile(r.Context(), caller.ID, input)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "conflict", "email is already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update profile")
		return
	}

	auditLog(r, "settings_update", "user", updated.Email)
	writeJSON(w, http.StatusOK, updated)
}
