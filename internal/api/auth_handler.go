package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/partofu/teamdeck/internal/activity"
	"github.com/partofu/teamdeck/internal/auth"
	"github.com/partofu/teamdeck/internal/metrics"
	"github.com/partofu/teamdeck/internal/user"
)

// UserStore is the subset of user.Store operations the API layer depends on.
type UserStore interface {
	Register(ctx context.Context, in user.RegisterInput) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context, status string) ([]*user.User, error)
	SetStatus(ctx context.Context, id int64, status string) error
	SetRole(ctx context.Context, id int64, role string) error
	UpdateProfile(ctx context.Context, id int64, in user.UpdateProfileInput) (*user.User, error)
	SetPassword(ctx context.Context, id int64, password string) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	CreateSession(ctx context.Context, userID int64) (string, *user.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Recorder records activity entries. Satisfied by *activity.Recorder.
type Recorder interface {
	Record(e activity.Entry)
}

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	store         UserStore
	recorder      Recorder
	metrics       *metrics.Metrics
	secureCookies bool
}

func newAuthHandler(store UserStore, recorder Recorder, m *metrics.Metrics, secureCookies bool) *authHandler {
	return &authHandler{store: store, recorder: recorder, metrics: m, secureCookies: secureCookies}
}

// Register handles POST /api/v1/auth/register. New accounts start pending
// and cannot log in until approved by an admin.
func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name, email and password are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email is not valid")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "password must be at least 6 characters")
		return
	}

	u, err := h.store.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "conflict", "email is already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to register")
		return
	}

	h.recorder.Record(activity.Entry{
		UserID:     u.ID,
		Action:     "registered",
		EntityType: "user",
		EntityID:   &u.ID,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    u,
		"message": "registration received, awaiting approval",
	})
}

// Login handles POST /api/v1/auth/login. Credential failures never reveal
// which field was wrong; account status failures are reported only after the
// credentials check out.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email             string `json:"email"`
		Password          string `json:"password"`
		SecondaryPassword string `json:"secondary_password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.metrics.IncAuthFailure("unknown_email")
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	if !auth.VerifyPassword(req.Password, u.PasswordHash) {
		h.metrics.IncAuthFailure("bad_password")
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	switch u.Status {
	case auth.StatusActive:
	case auth.StatusPending:
		h.metrics.IncAuthFailure("pending")
		writeError(w, http.StatusForbidden, "forbidden", "account is awaiting admin approval")
		return
	case auth.StatusRejected:
		h.metrics.IncAuthFailure("rejected")
		writeError(w, http.StatusForbidden, "forbidden", "account registration was rejected")
		return
	default:
		h.metrics.IncAuthFailure("inactive")
		writeError(w, http.StatusForbidden, "forbidden", "account has been deactivated")
		return
	}

	// Admin accounts with a secondary password configured must pass it too.
	// A missing secondary password is reported distinctly from a wrong one.
	if u.Role == auth.RoleAdmin && u.SecondaryPasswordHash != "" {
		if req.SecondaryPassword == "" {
			h.metrics.IncAuthFailure("secondary_missing")
			writeError(w, http.StatusUnauthorized, "secondary_password_required", "secondary password is required")
			return
		}
		if !auth.VerifyPassword(req.SecondaryPassword, u.SecondaryPasswordHash) {
			h.metrics.IncAuthFailure("secondary_bad")
			writeError(w, http.StatusUnauthorized, "invalid_secondary_password", "invalid secondary password")
			return
		}
	}

	token, sess, err := h.store.CreateSession(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	auth.SetSessionCookie(w, token, sess.ExpiresAt, h.secureCookies)
	h.metrics.IncAuthSuccess("password")
	h.metrics.IncSessionsCreated()

	h.recorder.Record(activity.Entry{
		UserID:     u.ID,
		Action:     "logged_in",
		EntityType: "user",
		EntityID:   &u.ID,
	})
	auditLog(r, "login", "user", req.Email)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":         u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       u.Role,
			"avatar_url": u.AvatarURL,
		},
		"expires_at": sess.ExpiresAt,
	})
}

// Logout handles POST /api/v1/auth/logout. Destroying an absent or unknown
// session still succeeds.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		_ = h.store.DeleteSession(r.Context(), token)
		h.metrics.IncSessionsRevoked()
	}
	auth.ClearSessionCookie(w, h.secureCookies)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
