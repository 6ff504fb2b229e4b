package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// --- mock session lookup ---

type mockSessionLookup struct {
	users    map[string]*User
	touched  []int64
	touchErr error
}

func (m *mockSessionLookup) LookupSession(_ context.Context, token string) (*User, error) {
	u, ok := m.users[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockSessionLookup) TouchPresence(_ context.Context, userID int64) error {
	m.touched = append(m.touched, userID)
	return m.touchErr
}

func okHandler(t *testing.T, gotUser **User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// --- context helpers ---

func TestUserContext_RoundTrip(t *testing.T) {
	u := &User{ID: 7, Email: "a@b.c", Role: RoleMember}
	ctx := ContextWithUser(context.Background(), u)
	got := UserFromContext(ctx)
	if got == nil {
		t.Fatal("expected user from context, got nil")
	}
	if got.ID != u.ID {
		t.Errorf("expected ID %d, got %d", u.ID, got.ID)
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if got := UserFromContext(context.Background()); got != nil {
		t.Errorf("expected nil from empty context, got %+v", got)
	}
}

// --- TokenFromRequest ---

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"cookie only", "tok-cookie", "", "tok-cookie"},
		{"bearer only", "", "Bearer tok-bearer", "tok-bearer"},
		{"cookie wins over bearer", "tok-cookie", "Bearer tok-bearer", "tok-cookie"},
		{"case-insensitive scheme", "", "bearer tok-lower", "tok-lower"},
		{"wrong scheme", "", "Basic abc", ""},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := TokenFromRequest(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// --- cookie helpers ---

func TestSetSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	expires := time.Now().Add(30 * 24 * time.Hour)
	SetSessionCookie(rec, "tok123", expires, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || c.Value != "tok123" {
		t.Errorf("unexpected cookie %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie should be HttpOnly")
	}
	if !c.Secure {
		t.Error("cookie should be Secure when requested")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.Path != "/" {
		t.Errorf("expected Path=/, got %q", c.Path)
	}
	if c.Expires.Sub(expires).Abs() > time.Second {
		t.Errorf("cookie expiry %v should match session expiry %v", c.Expires, expires)
	}
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec, false)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("expected negative MaxAge to clear cookie, got %d", cookies[0].MaxAge)
	}
}

// --- RequireAuthenticated ---

func TestRequireAuthenticated_ValidCookie(t *testing.T) {
	sessions := &mockSessionLookup{users: map[string]*User{
		"valid-token": {ID: 42, Email: "m@example.com", Role: RoleMember, Status: StatusActive},
	}}

	var gotUser *User
	handler := RequireAuthenticated(sessions)(okHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUser == nil || gotUser.ID != 42 {
		t.Errorf("expected user 42 in context, got %+v", gotUser)
	}
}

func TestRequireAuthenticated_BearerFallback(t *testing.T) {
	sessions := &mockSessionLookup{users: map[string]*User{
		"api-token": {ID: 9, Role: RoleMember, Status: StatusActive},
	}}

	var gotUser *User
	handler := RequireAuthenticated(sessions)(okHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer api-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUser == nil || gotUser.ID != 9 {
		t.Errorf("expected user 9 in context, got %+v", gotUser)
	}
}

func TestRequireAuthenticated_MissingToken(t *testing.T) {
	sessions := &mockSessionLookup{users: map[string]*User{}}

	var gotUser *User
	handler := RequireAuthenticated(sessions)(okHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if gotUser != nil {
		t.Error("handler should not run for unauthenticated request")
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error.Code != "unauthorized" {
		t.Errorf("expected code unauthorized, got %q", body.Error.Code)
	}
}

func TestRequireAuthenticated_UnknownToken(t *testing.T) {
	sessions := &mockSessionLookup{users: map[string]*User{}}

	var gotUser *User
	handler := RequireAuthenticated(sessions)(okHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired-or-bogus"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthenticated_TouchesPresence(t *testing.T) {
	sessions := &mockSessionLookup{users: map[string]*User{
		"tok": {ID: 5, Role: RoleMember, Status: StatusActive},
	}}

	var gotUser *User
	handler := RequireAuthenticated(sessions)(okHandler(t, &gotUser))

	// Two resolutions stamp presence twice.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	if len(sessions.touched) != 2 {
		t.Fatalf("expected presence touched twice, got %d", len(sessions.touched))
	}
	if sessions.touched[0] != 5 || sessions.touched[1] != 5 {
		t.Errorf("expected user 5 touched, got %v", sessions.touched)
	}
}

func TestRequireAuthenticated_PresenceFailureNonFatal(t *testing.T) {
	sessions := &mockSessionLookup{
		users:    map[string]*User{"tok": {ID: 5, Role: RoleMember, Status: StatusActive}},
		touchErr: errors.New("db down"),
	}

	var gotUser *User
	handler := RequireAuthenticated(sessions)(okHandler(t, &gotUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("presence failure should not fail the request, got %d", rec.Code)
	}
}

// --- RequireAdmin ---

func TestRequireAdmin(t *testing.T) {
	sessions := &mockSessionLookup{users: map[string]*User{
		"admin-tok":  {ID: 1, Role: RoleAdmin, Status: StatusActive},
		"member-tok": {ID: 2, Role: RoleMember, Status: StatusActive},
	}}

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{"admin passes", "admin-tok", http.StatusOK, ""},
		{"member gets 403", "member-tok", http.StatusForbidden, "forbidden"},
		{"unknown gets 401", "bogus", http.StatusUnauthorized, "unauthorized"},
		{"missing gets 401", "", http.StatusUnauthorized, "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser *User
			handler := RequireAdmin(sessions)(okHandler(t, &gotUser))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantCode != "" {
				var body errorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if body.Error.Code != tt.wantCode {
					t.Errorf("expected code %q, got %q", tt.wantCode, body.Error.Code)
				}
			}
		})
	}
}
