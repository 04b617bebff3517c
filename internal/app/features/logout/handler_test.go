package logout_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/features/logout"
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type recordingAudit struct {
	ids []string
}

func (a *recordingAudit) Logout(_ context.Context, _ *http.Request, operatorID, _ string) {
	a.ids = append(a.ids, operatorID)
}

func newTestHandler(t *testing.T) (*logout.Handler, *auth.SessionManager, *recordingAudit) {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only-32chars", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	aud := &recordingAudit{}
	return logout.NewHandler(sessionMgr, aud, notice.NewFactory(time.Minute), logger), sessionMgr, aud
}

func TestServeLogout_ClearsSessionCookie(t *testing.T) {
	handler, _, aud := newTestHandler(t)

	req := auth.WithTestUser(httptest.NewRequest(http.MethodPost, "/logout", nil),
		&auth.SessionUser{ID: "op-1", Email: "ops@example.com"})
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge >= 0 {
				t.Errorf("cookie MaxAge: got %d, want < 0", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected session cookie to be expired")
	}
	if len(aud.ids) != 1 || aud.ids[0] != "op-1" {
		t.Errorf("audit logout ids = %v", aud.ids)
	}
}

func TestRoutes_RequireSignedIn(t *testing.T) {
	handler, sm, aud := newTestHandler(t)

	r := chi.NewRouter()
	r.Mount("/logout", logout.Routes(handler, sm))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous logout, got %d", rec.Code)
	}
	if len(aud.ids) != 0 {
		t.Error("anonymous logout should not be audited")
	}
}
