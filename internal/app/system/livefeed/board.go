// Package livefeed animates the demo campaign boards. Each platform has one
// Board of mock campaigns and one Feed that advances the live ones on a
// fixed period. Nothing here touches the database.
package livefeed

import (
	"sync"

	"github.com/dalemusser/opsconsole/internal/app/system/demo"
	"github.com/dalemusser/opsconsole/internal/domain/models"
)

// DefaultBoardSize is how many mock campaigns a board holds.
const DefaultBoardSize = 8

// Board is the in-memory campaign list for one platform.
type Board struct {
	mu        sync.Mutex
	platform  string
	sim       *demo.Simulator
	campaigns []models.Campaign
	ticks     uint64
}

// NewBoard returns a board filled with size mock campaigns.
func NewBoard(platform string, sim *demo.Simulator, size int) *Board {
	b := &Board{platform: platform, sim: sim}
	b.Regenerate(size)
	return b
}

func (b *Board) Platform() string { return b.platform }

// Snapshot returns a copy of the current campaigns.
func (b *Board) Snapshot() []models.Campaign {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Campaign, len(b.campaigns))
	copy(out, b.campaigns)
	return out
}

// Ticks is the number of ticks applied since the board was built.
func (b *Board) Ticks() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ticks
}

// Regenerate replaces every campaign with fresh mock records.
func (b *Board) Regenerate(size int) {
	if size <= 0 {
		size = DefaultBoardSize
	}
	fresh := b.sim.Campaigns(b.platform, size)
	b.mu.Lock()
	b.campaigns = fresh
	b.mu.Unlock()
}

// Tick advances every live campaign by one step and returns how many changed.
func (b *Board) Tick() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ticks++
	n := 0
	for i := range b.campaigns {
		if b.sim.Advance(&b.campaigns[i]) {
			n++
		}
	}
	return n
}
