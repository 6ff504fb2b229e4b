package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNilMetricsHelpersAreNoOps(t *testing.T) {
	var m *Metrics
	m.IncAuthFailure("bad_password")
	m.IncAuthSuccess("password")
	m.IncLoginThrottle()
	m.IncSessionsCreated()
	m.IncSessionsRevoked()
	m.AddSessionsSwept(3)
}

func TestHandler_LiveSummary(t *testing.T) {
	m := New()
	m.IncAuthFailure("bad_password")
	m.IncAuthFailure("unknown_email")
	m.IncAuthSuccess("password")
	m.IncSessionsCreated()
	m.IncSessionsCreated()
	m.IncSessionsRevoked()
	m.AddSessionsSwept(7)
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/tasks", "200").Add(8)
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/tasks", "404").Add(2)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var summary Summary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}

	if summary.Mode != "live" {
		t.Errorf("expected mode live, got %q", summary.Mode)
	}
	if summary.Auth.Failures != 2 {
		t.Errorf("expected 2 auth failures, got %v", summary.Auth.Failures)
	}
	if summary.Auth.Successes != 1 {
		t.Errorf("expected 1 auth success, got %v", summary.Auth.Successes)
	}
	if summary.Sessions.Created != 2 || summary.Sessions.Revoked != 1 || summary.Sessions.Swept != 7 {
		t.Errorf("unexpected session counters: %+v", summary.Sessions)
	}
	if summary.HTTP.TotalRequests != 10 {
		t.Errorf("expected 10 requests, got %v", summary.HTTP.TotalRequests)
	}
	if summary.HTTP.ErrorRate != 0.2 {
		t.Errorf("expected error rate 0.2, got %v", summary.HTTP.ErrorRate)
	}
}

func TestDBPoolCollector(t *testing.T) {
	m := New()
	m.RegisterDBPoolCollector(func() (int32, int32, int32) {
		return 10, 6, 4
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	var summary Summary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.DB.TotalConns != 10 || summary.DB.IdleConns != 6 || summary.DB.AcquiredConns != 4 {
		t.Errorf("unexpected db pool stats: %+v", summary.DB)
	}
}

func TestHistogramPercentile_Empty(t *testing.T) {
	if got := histogramPercentile(nil, 0.95); got != 0 {
		t.Errorf("expected 0 for nil family, got %v", got)
	}
}
