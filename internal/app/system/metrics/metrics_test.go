package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestRecordChanged(t *testing.T) {
	m := metrics.New()
	ctx := context.Background()
	id := primitive.NewObjectID()

	m.RecordChanged(ctx, records.TableGeofences, records.OpInsert, id, nil)
	m.RecordChanged(ctx, records.TableGeofences, records.OpInsert, id, nil)
	m.RecordChanged(ctx, records.TableGeofences, records.OpDelete, id, errors.New("boom"))

	out := scrape(t, m)
	for _, want := range []string{
		`opsconsole_record_ops_total{op="insert",result="ok",table="geofences"} 2`,
		`opsconsole_record_ops_total{op="delete",result="error",table="geofences"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestLiveFeed(t *testing.T) {
	m := metrics.New()
	m.LiveFeedState("wechat", true)
	m.LiveFeedTick("wechat", 3)
	m.LiveFeedTick("wechat", 0)
	m.LiveFeedState("facebook", true)
	m.LiveFeedState("facebook", false)

	out := scrape(t, m)
	for _, want := range []string{
		`opsconsole_livefeed_ticks_total{platform="wechat"} 2`,
		`opsconsole_livefeed_running{platform="wechat"} 1`,
		`opsconsole_livefeed_running{platform="facebook"} 0`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestNewIsIndependent(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.LiveFeedTick("linkedin", 1)
	if strings.Contains(scrape(t, b), `platform="linkedin"`) {
		t.Error("registries should not share series")
	}
}
