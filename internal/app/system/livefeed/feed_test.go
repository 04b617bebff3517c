package livefeed_test

import (
	"testing"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/system/demo"
	"github.com/dalemusser/opsconsole/internal/app/system/livefeed"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manualTicker delivers ticks only when the test sends them.
type manualTicker struct {
	c       chan time.Time
	stopped chan struct{}
}

func newManualTicker() *manualTicker {
	return &manualTicker{c: make(chan time.Time), stopped: make(chan struct{})}
}

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()               { close(m.stopped) }

// send tries to deliver a tick; it reports false if nobody received it.
func (m *manualTicker) send(wait time.Duration) bool {
	select {
	case m.c <- time.Now():
		return true
	case <-time.After(wait):
		return false
	}
}

func liveBoard() *livefeed.Board {
	b := livefeed.NewBoard(models.PlatformFacebook, demo.NewSeeded(7), 6)
	return b
}

func TestFeed_StartTickStop(t *testing.T) {
	board := liveBoard()
	tk := newManualTicker()
	ticked := make(chan int, 8)
	var states []bool

	f := livefeed.NewFeed(board, time.Second, zap.NewNop(),
		func(d time.Duration) livefeed.Ticker {
			assert.Equal(t, time.Second, d)
			return tk
		},
		livefeed.Hooks{
			OnTick:  func(_ string, n int) { ticked <- n },
			OnState: func(_ string, running bool) { states = append(states, running) },
		})

	require.False(t, f.Running())
	require.True(t, f.Start())
	require.False(t, f.Start(), "second Start is a no-op")
	require.True(t, f.Running())

	require.True(t, tk.send(time.Second))
	<-ticked
	require.True(t, tk.send(time.Second))
	<-ticked
	assert.Equal(t, uint64(2), board.Ticks())

	require.True(t, f.Stop())
	require.False(t, f.Stop(), "second Stop is a no-op")
	assert.False(t, f.Running())

	select {
	case <-tk.stopped:
	default:
		t.Fatal("ticker should be stopped after Stop")
	}
	assert.Equal(t, []bool{true, false}, states)
}

func TestFeed_NoMutationAfterStop(t *testing.T) {
	board := liveBoard()
	tk := newManualTicker()
	f := livefeed.NewFeed(board, time.Second, zap.NewNop(),
		func(time.Duration) livefeed.Ticker { return tk }, livefeed.Hooks{})

	f.Start()
	f.Stop()

	before := board.Snapshot()
	ticksBefore := board.Ticks()

	assert.False(t, tk.send(50*time.Millisecond), "no loop should be receiving ticks")
	assert.Equal(t, before, board.Snapshot())
	assert.Equal(t, ticksBefore, board.Ticks())
}

func TestFeed_Restart(t *testing.T) {
	board := liveBoard()
	var tickers []*manualTicker
	f := livefeed.NewFeed(board, time.Second, zap.NewNop(),
		func(time.Duration) livefeed.Ticker {
			tk := newManualTicker()
			tickers = append(tickers, tk)
			return tk
		}, livefeed.Hooks{})

	f.Start()
	f.Stop()
	f.Start()
	require.Len(t, tickers, 2)
	require.True(t, tickers[1].send(time.Second))
	f.Stop()
}

func TestBoard_TickAdvancesOnlyLive(t *testing.T) {
	board := liveBoard()
	before := board.Snapshot()
	for range 5 {
		board.Tick()
	}
	after := board.Snapshot()
	require.Len(t, after, len(before))
	for i := range before {
		if !before[i].IsLive() {
			assert.Equal(t, before[i], after[i], "campaign %d is not live and must not change", i)
			continue
		}
		assert.GreaterOrEqual(t, after[i].Impressions, before[i].Impressions)
	}
}

func TestBoard_SnapshotIsACopy(t *testing.T) {
	board := liveBoard()
	snap := board.Snapshot()
	require.NotEmpty(t, snap)
	snap[0].Name = "changed"
	assert.NotEqual(t, "changed", board.Snapshot()[0].Name)
}

func TestFeeds(t *testing.T) {
	fs := livefeed.NewFeeds(demo.NewSeeded(8), zap.NewNop(), livefeed.Options{BoardSize: 3})
	for _, p := range models.Platforms {
		require.NotNil(t, fs.Board(p), p)
		require.NotNil(t, fs.Feed(p), p)
		assert.Len(t, fs.Board(p).Snapshot(), 3)
		assert.Contains(t, livefeed.Periods, p)
	}
	assert.Nil(t, fs.Board("myspace"))

	fs.Feed(models.PlatformWeChat).Start()
	fs.Feed(models.PlatformLinkedIn).Start()
	fs.StopAll()
	for _, p := range models.Platforms {
		assert.False(t, fs.Feed(p).Running(), p)
	}
}

func TestPeriods(t *testing.T) {
	want := map[string]time.Duration{
		"wechat":    3 * time.Second,
		"facebook":  2 * time.Second,
		"instagram": 2500 * time.Millisecond,
		"linkedin":  3500 * time.Millisecond,
	}
	assert.Equal(t, want, livefeed.Periods)
}
