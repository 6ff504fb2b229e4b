package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type contextKey int

const userContextKey contextKey = iota

// ContextWithUser returns a new context carrying the given user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the user from the context, or nil if not present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// RequireAuthenticated returns middleware that resolves the session token and
// injects the user into the request context. Resolution failing for any
// reason (missing token, expired session, non-active account) yields the
// same 401 so callers cannot probe which check failed.
//
// Resolving a session also stamps presence (is_online, last_active). A failed
// presence write is logged but does not fail the request.
func RequireAuthenticated(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := resolve(w, r, sessions)
			if user == nil {
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin is RequireAuthenticated plus an admin role check. A valid
// session with insufficient role gets 403, never 401.
func RequireAdmin(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := resolve(w, r, sessions)
			if user == nil {
				return
			}
			if !user.IsAdmin() {
				writeForbidden(w, "admin access required")
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve looks up the session and touches presence. On failure it writes the
// 401 response and returns nil.
func resolve(w http.ResponseWriter, r *http.Request, sessions SessionLookup) *User {
	token := TokenFromRequest(r)
	if token == "" {
		writeUnauthorized(w, "not authenticated")
		return nil
	}

	user, err := sessions.LookupSession(r.Context(), token)
	if err != nil || user == nil {
		writeUnauthorized(w, "invalid or expired session")
		return nil
	}

	if err := sessions.TouchPresence(r.Context(), user.ID); err != nil {
		slog.Warn("presence update failed", "user_id", user.ID, "error", err)
	}

	return user
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Code:    "unauthorized",
			Message: message,
		},
	})
}

func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{
			Code:    "forbidden",
			Message: message,
		},
	})
}
