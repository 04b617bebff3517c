package campaigns

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/demo"
	"github.com/dalemusser/opsconsole/internal/app/system/livefeed"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/dalemusser/opsconsole/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// idleTicker never fires; board contents only change through the handlers.
type idleTicker struct{ c chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.c }
func (t idleTicker) Stop()               {}

type toggle struct {
	platform string
	running  bool
}

type fakeAudit struct {
	mu     sync.Mutex
	events []toggle
}

func (a *fakeAudit) LiveFeedToggled(_ context.Context, platform string, running bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, toggle{platform, running})
}

func newTestHandler(t *testing.T) (*Handler, *fakeAudit) {
	t.Helper()
	feeds := livefeed.NewFeeds(demo.NewSeeded(11), zap.NewNop(), livefeed.Options{
		BoardSize: 5,
		NewTicker: func(time.Duration) livefeed.Ticker { return idleTicker{c: make(chan time.Time)} },
	})
	t.Cleanup(feeds.StopAll)
	audit := &fakeAudit{}
	return NewHandler(feeds, audit, notice.NewFactory(0), zap.NewNop(), 5), audit
}

func serve(h *Handler, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.NewJSONRequest(method, target, body))
	return rec
}

func TestBoard(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, http.MethodGet, "/"+models.PlatformWeChat, "")
	require.Equal(t, http.StatusOK, rec.Code)

	b := testutil.DecodeJSON[board](t, rec)
	assert.Equal(t, models.PlatformWeChat, b.Platform)
	assert.Len(t, b.Campaigns, 5)
	assert.Equal(t, 5, b.Metrics.Campaigns)
	assert.False(t, b.Running)
	assert.Equal(t, int64(3000), b.PeriodMS)
}

func TestIndex_AllPlatforms(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	boards := testutil.DecodeJSON[[]board](t, rec)
	require.Len(t, boards, len(models.Platforms))
	for i, p := range models.Platforms {
		assert.Equal(t, p, boards[i].Platform)
	}
}

func TestUnknownPlatform(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/myspace"},
		{http.MethodPost, "/myspace/live"},
		{http.MethodPost, "/myspace/regenerate"},
	} {
		rec := serve(h, tc.method, tc.path, `{"running":true}`)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
}

func TestLive_StartStopIdempotent(t *testing.T) {
	h, audit := newTestHandler(t)

	rec := serve(h, http.MethodPost, "/facebook/live", `{"running":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	b := testutil.DecodeJSON[board](t, rec)
	assert.True(t, b.Running)
	assert.Equal(t, "Live updates started", b.Notice.Message)

	// Starting again changes nothing and is not audited twice.
	rec = serve(h, http.MethodPost, "/facebook/live", `{"running":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, h.Feeds.Feed(models.PlatformFacebook).Running())

	rec = serve(h, http.MethodPost, "/facebook/live", `{"running":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	b = testutil.DecodeJSON[board](t, rec)
	assert.False(t, b.Running)

	rec = serve(h, http.MethodPost, "/facebook/live", `{"running":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []toggle{{"facebook", true}, {"facebook", false}}, audit.events)
	assert.False(t, h.Feeds.Feed(models.PlatformInstagram).Running(), "other platforms untouched")
}

func TestLive_BadBody(t *testing.T) {
	h, audit := newTestHandler(t)

	tests := []struct {
		body, msg string
	}{
		{`{}`, "running is required."},
		{`{"running":"yes"}`, "running has the wrong type."},
		{`{"running":true,"speed":2}`, `Unknown field "speed".`},
	}
	for _, tt := range tests {
		rec := serve(h, http.MethodPost, "/linkedin/live", tt.body)
		require.Equal(t, http.StatusBadRequest, rec.Code, tt.body)
		body := testutil.DecodeJSON[crud.ErrorBody](t, rec)
		assert.Equal(t, tt.msg, body.Notice.Message, tt.body)
	}
	assert.Empty(t, audit.events)
	assert.False(t, h.Feeds.Feed(models.PlatformLinkedIn).Running())
}

func TestRegenerate(t *testing.T) {
	h, _ := newTestHandler(t)
	before := h.Feeds.Board(models.PlatformInstagram).Snapshot()

	rec := serve(h, http.MethodPost, "/instagram/regenerate", "")
	require.Equal(t, http.StatusOK, rec.Code)

	b := testutil.DecodeJSON[board](t, rec)
	assert.Len(t, b.Campaigns, 5)
	assert.NotEqual(t, before, b.Campaigns)
	assert.Equal(t, notice.KindSuccess, b.Notice.Kind)
}

func TestDemoModeOff(t *testing.T) {
	h := NewHandler(nil, nil, notice.NewFactory(0), zap.NewNop(), 0)

	for _, path := range []string{"/", "/wechat"} {
		rec := serve(h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	rec := serve(h, http.MethodPost, "/wechat/live", `{"running":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
