package livefeed

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tick periods per platform.
var Periods = map[string]time.Duration{
	"wechat":    3000 * time.Millisecond,
	"facebook":  2000 * time.Millisecond,
	"instagram": 2500 * time.Millisecond,
	"linkedin":  3500 * time.Millisecond,
}

// Ticker is the part of *time.Ticker a Feed uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewTicker wraps time.NewTicker.
func NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

// Hooks are called from the feed goroutine and from Start/Stop.
type Hooks struct {
	OnTick  func(platform string, changed int)
	OnState func(platform string, running bool)
}

// Feed is a stopped → running → stopped worker advancing one Board.
// Start and Stop are idempotent.
type Feed struct {
	board     *Board
	period    time.Duration
	log       *zap.Logger
	newTicker func(time.Duration) Ticker
	hooks     Hooks

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewFeed creates a stopped feed. newTicker may be nil to use real tickers.
func NewFeed(board *Board, period time.Duration, logger *zap.Logger, newTicker func(time.Duration) Ticker, hooks Hooks) *Feed {
	if newTicker == nil {
		newTicker = NewTicker
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		board:     board,
		period:    period,
		log:       logger,
		newTicker: newTicker,
		hooks:     hooks,
	}
}

func (f *Feed) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Start begins ticking. It reports false if the feed was already running.
func (f *Feed) Start() bool {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return false
	}
	f.running = true
	f.stopCh = make(chan struct{})
	t := f.newTicker(f.period)
	f.wg.Add(1)
	go f.run(t, f.stopCh)
	f.mu.Unlock()

	f.log.Info("live feed started",
		zap.String("platform", f.board.Platform()),
		zap.Duration("period", f.period))
	if f.hooks.OnState != nil {
		f.hooks.OnState(f.board.Platform(), true)
	}
	return true
}

// Stop ends the loop and waits for it to exit. After Stop returns no
// further tick is applied. It reports false if the feed was not running.
func (f *Feed) Stop() bool {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return false
	}
	f.running = false
	close(f.stopCh)
	f.mu.Unlock()

	f.wg.Wait()
	f.log.Info("live feed stopped", zap.String("platform", f.board.Platform()))
	if f.hooks.OnState != nil {
		f.hooks.OnState(f.board.Platform(), false)
	}
	return true
}

func (f *Feed) run(t Ticker, stop <-chan struct{}) {
	defer f.wg.Done()
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C():
			// A tick that races Stop is dropped.
			select {
			case <-stop:
				return
			default:
			}
			n := f.board.Tick()
			if f.hooks.OnTick != nil {
				f.hooks.OnTick(f.board.Platform(), n)
			}
		}
	}
}
