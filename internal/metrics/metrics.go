package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the teamdeck server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Auth metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal *prometheus.CounterVec
	LoginThrottleTotal prometheus.Counter

	// Session metrics.
	SessionsCreatedTotal prometheus.Counter
	SessionsRevokedTotal prometheus.Counter
	SessionsSweptTotal   prometheus.Counter

	// Activity recorder metrics.
	RecorderBufferSize    prometheus.Gauge
	RecorderFlushesTotal  *prometheus.CounterVec
	RecorderFlushDuration prometheus.Histogram
	RecorderEntriesTotal  prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamdeck_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teamdeck_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teamdeck_http_response_size_bytes",
			Help:    "HTTP response size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "path_pattern"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamdeck_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"reason"}),

		AuthSuccessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamdeck_auth_successes_total",
			Help: "Total number of successful authentications.",
		}, []string{"auth_type"}),

		LoginThrottleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teamdeck_login_throttle_total",
			Help: "Total number of login attempts rejected by the rate limiter.",
		}),

		SessionsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teamdeck_sessions_created_total",
			Help: "Total number of sessions created.",
		}),

		SessionsRevokedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teamdeck_sessions_revoked_total",
			Help: "Total number of sessions revoked by logout.",
		}),

		SessionsSweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teamdeck_sessions_swept_total",
			Help: "Total number of expired sessions removed by the sweeper.",
		}),

		RecorderBufferSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "teamdeck_recorder_buffer_size",
			Help: "Current number of buffered activity log entries.",
		}),

		RecorderFlushesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamdeck_recorder_flushes_total",
			Help: "Total number of activity recorder flushes.",
		}, []string{"status"}),

		RecorderFlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamdeck_recorder_flush_duration_seconds",
			Help:    "Duration of activity recorder flush operations in seconds.",
			Buckets: prometheus.DefBuckets,
		}),

		RecorderEntriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teamdeck_recorder_entries_total",
			Help: "Total number of activity log entries recorded.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "teamdeck_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.LoginThrottleTotal,
		m.SessionsCreatedTotal,
		m.SessionsRevokedTotal,
		m.SessionsSweptTotal,
		m.RecorderBufferSize,
		m.RecorderFlushesTotal,
		m.RecorderFlushDuration,
		m.RecorderEntriesTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// The Inc helpers below are safe on a nil receiver so callers wired without
// metrics do not need guards at every call site.

// IncAuthFailure increments the auth failure counter for the given reason.
func (m *Metrics) IncAuthFailure(reason string) {
	if m == nil {
		return
	}
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// IncAuthSuccess increments the auth success counter for the given auth type.
func (m *Metrics) IncAuthSuccess(authType string) {
	if m == nil {
		return
	}
	m.AuthSuccessesTotal.WithLabelValues(authType).Inc()
}

// IncLoginThrottle increments the login rate limit rejection counter.
func (m *Metrics) IncLoginThrottle() {
	if m == nil {
		return
	}
	m.LoginThrottleTotal.Inc()
}

// IncSessionsCreated increments the session creation counter.
func (m *Metrics) IncSessionsCreated() {
	if m == nil {
		return
	}
	m.SessionsCreatedTotal.Inc()
}

// IncSessionsRevoked increments the session revocation counter.
func (m *Metrics) IncSessionsRevoked() {
	if m == nil {
		return
	}
	m.SessionsRevokedTotal.Inc()
}

// AddSessionsSwept adds the number of expired sessions removed in one sweep.
func (m *Metrics) AddSessionsSwept(n int64) {
	if m == nil {
		return
	}
	m.SessionsSweptTotal.Add(float64(n))
}
