package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partofu/teamdeck/internal/activity"
	"github.com/partofu/teamdeck/internal/api"
	"github.com/partofu/teamdeck/internal/catalog"
	"github.com/partofu/teamdeck/internal/config"
	"github.com/partofu/teamdeck/internal/metrics"
	"github.com/partofu/teamdeck/internal/notification"
	"github.com/partofu/teamdeck/internal/ratelimit"
	"github.com/partofu/teamdeck/internal/task"
	"github.com/partofu/teamdeck/internal/user"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Teamdeck server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

const sessionSweepInterval = time.Hour

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		stat := pool.Stat()
		return stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns()
	})

	userStore := user.NewStore(pool)
	taskStore := task.NewStore(pool)
	catalogStore := catalog.NewStore(pool)
	notificationStore := notification.NewStore(pool)
	activityStore := activity.NewStore(pool)

	recorder := activity.NewRecorder(activityStore, cfg.Activity.BatchSize, cfg.Activity.FlushInterval)
	recorder.OnRecord = func(buffered int) {
		m.RecorderEntriesTotal.Inc()
		m.RecorderBufferSize.Set(float64(buffered))
	}
	recorder.OnFlush = func(count int, took time.Duration, err error) {
		status := "success"
		if err != nil {
			status = "error"
		}
		m.RecorderFlushesTotal.WithLabelValues(status).Inc()
		m.RecorderFlushDuration.Observe(took.Seconds())
		m.RecorderBufferSize.Set(0)
	}
	go recorder.Start(ctx)

	limiter := ratelimit.New(cfg.LoginLimit.Attempts, cfg.LoginLimit.Window)
	go func() {
		ticker := time.NewTicker(cfg.LoginLimit.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Expired sessions are swept on a timer; session lookup already filters
	// on expiry, so this only reclaims storage.
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := userStore.CleanExpiredSessions(ctx)
				if err != nil {
					slog.Error("session sweep failed", "error", err)
					continue
				}
				if n > 0 {
					m.AddSessionsSwept(n)
					slog.Info("swept expired sessions", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	router := api.NewRouter(api.RouterDeps{
		Users:          userStore,
		Sessions:       user.NewAuthAdapter(userStore),
		Tasks:          taskStore,
		Packages:       catalogStore,
		Notifications:  notificationStore,
		Activity:       activityStore,
		Recorder:       recorder,
		Limiter:        limiter,
		Metrics:        m,
		PingDB:         pool.Ping,
		SecureCookies:  cfg.Server.SecureCookies,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	recorder.Stop()

	return srv.Shutdown(shutdownCtx)
}
