package livefeed

import (
	"time"

	"github.com/dalemusser/opsconsole/internal/app/system/demo"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"go.uber.org/zap"
)

// Feeds holds one board and feed per campaign platform.
type Feeds struct {
	boards map[string]*Board
	feeds  map[string]*Feed
}

// Options configures NewFeeds. Zero values pick the defaults.
type Options struct {
	BoardSize int
	NewTicker func(time.Duration) Ticker
	Hooks     Hooks
}

func NewFeeds(sim *demo.Simulator, logger *zap.Logger, opts Options) *Feeds {
	fs := &Feeds{boards: map[string]*Board{}, feeds: map[string]*Feed{}}
	for _, p := range models.Platforms {
		b := NewBoard(p, sim, opts.BoardSize)
		fs.boards[p] = b
		fs.feeds[p] = NewFeed(b, Periods[p], logger, opts.NewTicker, opts.Hooks)
	}
	return fs
}

// Board returns the platform's board, or nil for an unknown platform.
func (fs *Feeds) Board(platform string) *Board { return fs.boards[platform] }

// Feed returns the platform's feed, or nil for an unknown platform.
func (fs *Feeds) Feed(platform string) *Feed { return fs.feeds[platform] }

// StopAll stops every running feed.
func (fs *Feeds) StopAll() {
	for _, f := range fs.feeds {
		f.Stop()
	}
}
