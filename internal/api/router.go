package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/partofu/teamdeck/internal/activity"
	"github.com/partofu/teamdeck/internal/auth"
	"github.com/partofu/teamdeck/internal/catalog"
	"github.com/partofu/teamdeck/internal/metrics"
	"github.com/partofu/teamdeck/internal/notification"
	"github.com/partofu/teamdeck/internal/ratelimit"
	"github.com/partofu/teamdeck/internal/task"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Users         UserStore
	Sessions      auth.SessionLookup
	Tasks         *task.Store
	Packages      *catalog.Store
	Notifications *notification.Store
	Notifier      Notifier
	Activity      *activity.Store
	Recorder      Recorder
	Limiter       *ratelimit.Limiter
	Metrics       *metrics.Metrics
	PingDB        func(context.Context) error

	SecureCookies  bool
	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	if deps.Notifier == nil && deps.Notifications != nil {
		deps.Notifier = deps.Notifications
	}

	// Handlers.
	authH := newAuthHandler(deps.Users, deps.Recorder, deps.Metrics, deps.SecureCookies)
	usersH := newUsersHandler(deps.Users, deps.Notifier, deps.Recorder)
	tasksH := newTasksHandler(deps.Tasks, deps.Notifier, deps.Recorder)
	packagesH := newPackagesHandler(deps.Packages, deps.Recorder)
	notificationsH := newNotificationsHandler(deps.Notifications)
	activityH := newActivityHandler(deps.Activity)
	settingsH := newSettingsHandler(deps.Users)
	statsH := newStatsHandler(deps.Users, deps.Tasks, deps.Packages)

	// Health check.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		db := "connected"
		if deps.PingDB != nil {
			if err := deps.PingDB(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":   "degraded",
					"database": "unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": db,
		})
	})

	// Well-known manifest.
	r.Get("/.well-known/teamdeck.json", WellKnownHandler)

	// Metrics summary.
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(v1 chi.Router) {
		// Public auth routes.
		v1.Post("/auth/register", authH.Register)

		login := http.HandlerFunc(authH.Login)
		if deps.Limiter != nil {
			onReject := func() {}
			if deps.Metrics != nil {
				onReject = deps.Metrics.IncLoginThrottle
			}
			v1.Method(http.MethodPost, "/auth/login",
				ratelimit.Middleware(deps.Limiter, onReject)(login))
		} else {
			v1.Post("/auth/login", authH.Login)
		}

		v1.Post("/auth/logout", authH.Logout)

		// Authenticated routes.
		v1.Group(func(ar chi.Router) {
			ar.Use(auth.RequireAuthenticated(deps.Sessions))

			ar.Get("/auth/me", authH.Me)
			ar.Get("/users", usersH.ListUsers)

			ar.Get("/tasks", tasksH.ListTasks)
			ar.Post("/tasks", tasksH.CreateTask)
			ar.Patch("/tasks", tasksH.UpdateTask)
			ar.Delete("/tasks", tasksH.DeleteTask)
			ar.Post("/tasks/comments", tasksH.AddComment)

			ar.Get("/packages", packagesH.ListPackages)

			ar.Get("/notifications", notificationsH.ListNotifications)
			ar.Patch("/notifications", notificationsH.PatchNotifications)
			ar.Delete("/notifications", notificationsH.DeleteNotifications)

			ar.Get("/activity", activityH.ListActivity)
			ar.Get("/stats", statsH.GetStats)
			ar.Patch("/settings", settingsH.PatchSettings)
		})

		// Admin-only routes.
		v1.Group(func(ar chi.Router) {
			ar.Use(auth.RequireAdmin(deps.Sessions))

			ar.Patch("/users", usersH.PatchUser)
			ar.Delete("/users", usersH.DeleteUser)

			ar.Post("/packages", packagesH.CreatePackage)
			ar.Patch("/packages", packagesH.UpdatePackage)
			ar.Delete("/packages", packagesH.DeletePackage)
		})
	})

	return r
}
