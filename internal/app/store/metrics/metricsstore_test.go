package metricsstore_test

import (
	"context"
	"errors"
	"testing"

	metricsstore "github.com/dalemusser/opsconsole/internal/app/store/metrics"
	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/testutil"
	"go.uber.org/zap"
)

type fakeCounter map[string]int64

func (f fakeCounter) Count(_ context.Context, table string) (int64, error) {
	n, ok := f[table]
	if !ok {
		return 0, errors.New("collection unavailable")
	}
	return n, nil
}

func TestFetchTableCounts_TolerantAndOrdered(t *testing.T) {
	counter := fakeCounter{"a": 3, "c": 5}
	got := metricsstore.FetchTableCounts(context.Background(), counter, []string{"a", "b", "c"}, zap.NewNop())

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []int64{3, 0, 5}
	for i, tc := range got {
		if tc.Count != want[i] {
			t.Errorf("%s: got %d, want %d", tc.Table, tc.Count, want[i])
		}
	}
	if got[1].Table != "b" || got[1].Err == nil {
		t.Errorf("failed count should keep its table and error: %+v", got[1])
	}
	if n := metricsstore.Total(got); n != 8 {
		t.Errorf("Total = %d, want 8", n)
	}
}

func TestFetchTableCounts_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGeofence(ctx, "Depot", 51.5, -0.12, 500)
	fixtures.CreateGeofence(ctx, "Harbour", 51.6, -0.10, 800)

	counts := metricsstore.FetchTableCounts(ctx, metricsstore.DB{Database: db}, records.Tables, zap.NewNop())
	for _, c := range counts {
		want := int64(0)
		if c.Table == records.TableGeofences {
			want = 2
		}
		if c.Count != want {
			t.Errorf("%s: got %d, want %d", c.Table, c.Count, want)
		}
	}
}
