package dashboard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/opsconsole/internal/app/features/dashboard"
	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/dalemusser/opsconsole/internal/testutil"
	"go.uber.org/zap"
)

type stubCounter struct {
	fail string
}

func (s stubCounter) Count(_ context.Context, table string) (int64, error) {
	if table == s.fail {
		return 0, errors.New("boom")
	}
	return 2, nil
}

type overview struct {
	Operator string `json:"operator"`
	Tables   []struct {
		Table string `json:"table"`
		Count int64  `json:"count"`
	} `json:"tables"`
	Total int64 `json:"total"`
}

func TestServeDashboard_CountsEveryTable(t *testing.T) {
	h := dashboard.NewHandler(stubCounter{fail: records.TableGeofences}, zap.NewNop())

	req := auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil),
		&auth.SessionUser{ID: "op", Name: "Ops Person", Email: "ops@example.com"})
	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	got := testutil.DecodeJSON[overview](t, rec)
	if len(got.Tables) != len(records.Tables) {
		t.Fatalf("tables: got %d, want %d", len(got.Tables), len(records.Tables))
	}
	for i, tc := range got.Tables {
		if tc.Table != records.Tables[i] {
			t.Errorf("table %d: got %q, want %q", i, tc.Table, records.Tables[i])
		}
		want := int64(2)
		if tc.Table == records.TableGeofences {
			want = 0
		}
		if tc.Count != want {
			t.Errorf("%s: got %d, want %d", tc.Table, tc.Count, want)
		}
	}
	if want := int64(2 * (len(records.Tables) - 1)); got.Total != want {
		t.Errorf("total: got %d, want %d", got.Total, want)
	}
	if got.Operator != "Ops Person" {
		t.Errorf("operator: got %q", got.Operator)
	}
}
