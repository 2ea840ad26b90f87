// Package feed retains recent trade executions for display and keeps
// session-wide aggregate counters over every trade seen.
package feed

import (
	"sync"

	"github.com/rustyeddy/harvester/engine"
)

// DefaultWindow is how many trades the display feed retains.
const DefaultWindow = 10

// Summary aggregates every trade recorded this session. A trade is a
// winner iff its PnL is present and positive, a loser iff present and
// negative; entry fills (no PnL) count only toward Count.
type Summary struct {
	Count     int
	Winners   int
	Losers    int
	TotalFees float64
}

// Feed is the bounded trade display window plus session aggregates.
// The aggregates are held separately from the window and are never
// evicted; only Recent is capped.
type Feed struct {
	mu      sync.Mutex
	window  int
	recent  []engine.TradeRecord // most recent first
	summary Summary
}

// New creates a feed retaining at most window trades for display.
// window <= 0 selects DefaultWindow.
func New(window int) *Feed {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Feed{
		window: window,
		recent: make([]engine.TradeRecord, 0, window),
	}
}

// Record appends a trade in arrival order. Trades are immutable once
// received; no ordering check is applied because the feed displays
// arrival order, not timestamp order.
func (f *Feed) Record(t engine.TradeRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recent = append([]engine.TradeRecord{t}, f.recent...)
	if len(f.recent) > f.window {
		f.recent = f.recent[:f.window]
	}

	f.summary.Count++
	f.summary.TotalFees += t.Fee
	if t.PnL != nil {
		switch {
		case *t.PnL > 0:
			f.summary.Winners++
		case *t.PnL < 0:
			f.summary.Losers++
		}
	}
}

// Recent returns a copy of the display window, most recent first.
func (f *Feed) Recent() []engine.TradeRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]engine.TradeRecord, len(f.recent))
	copy(out, f.recent)
	return out
}

// Summary returns the session aggregates.
func (f *Feed) Summary() Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary
}
