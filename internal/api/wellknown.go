package api

import "net/http"

// wellKnownManifest is the static JSON manifest for /.well-known/teamdeck.json.
const wellKnownManifest = `{
  "name": "Teamdeck",
  "description": "Internal team management service",
  "version": "0.1.0",
  "api_base": "/api/v1",
  "auth": {
    "type": "session",
    "cookie": "session_token",
    "header": "Authorization"
  },
  "endpoints": {
    "auth": "/api/v1/auth",
    "users": "/api/v1/users",
    "tasks": "/api/v1/tasks",
    "packages": "/api/v1/packages",
    "notifications": "/api/v1/notifications",
    "activity": "/api/v1/activity",
    "stats": "/api/v1/stats"
  },
  "health": "/health"
}`

// WellKnownHandler returns the static Teamdeck well-known manifest.
func WellKnownHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(wellKnownManifest))
}
