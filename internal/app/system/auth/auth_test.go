package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err != auth.ErrEmptyKey {
		t.Errorf("got %v, want ErrEmptyKey", err)
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/telco", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/telco", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := httptest.NewRequest("GET", "/telco", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, "/login") {
		t.Errorf("expected HX-Redirect to /login, got %q", hx)
	}
}

func TestRequireSignedIn_WithTestUser_Passes(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler())

	req := auth.WithTestUser(httptest.NewRequest("GET", "/telco", nil), &auth.SessionUser{ID: "abc", Email: "ops@example.com"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestSignIn_CookieRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	// Sign in and capture the cookie.
	req := httptest.NewRequest("POST", "/login", nil)
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, req, auth.SessionUser{ID: "op1", Name: "Ops", Email: "ops@example.com"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	req2 := httptest.NewRequest("GET", "/telco", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)

	if rec2.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec2.Code)
	}
	if got == nil || got.Email != "ops@example.com" || got.ID != "op1" {
		t.Errorf("CurrentUser: got %+v", got)
	}
}
