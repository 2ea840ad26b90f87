// Package history keeps a bounded, time-ordered equity series derived
// from accepted status snapshots, and projects a short-horizon trend
// from it for display.
package history

import (
	"sync"
	"time"
)

// DefaultCapacity bounds the retained series; one point arrives per
// accepted snapshot, so at a 2s cadence this covers the last ~3 minutes.
const DefaultCapacity = 100

// EquityPoint is one derived observation: equity and the engine-reported
// drawdown at that time.
type EquityPoint struct {
	Time        time.Time
	Equity      float64
	DrawdownPct float64
}

// Buffer retains the most recent EquityPoints in timestamp order.
// Appends evict oldest-first once capacity is reached; a point not
// strictly newer than the last retained one is dropped, never inserted
// out of order.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	points   []EquityPoint
}

// NewBuffer creates a buffer holding at most capacity points.
// capacity <= 0 selects DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity: capacity,
		points:   make([]EquityPoint, 0, capacity),
	}
}

// Append inserts p if it is strictly newer than the last retained point.
// Returns false when p was dropped as stale or duplicate.
func (b *Buffer) Append(p EquityPoint) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n := len(b.points); n > 0 && !p.Time.After(b.points[n-1].Time) {
		return false
	}

	b.points = append(b.points, p)
	if len(b.points) > b.capacity {
		b.points = b.points[1:]
	}
	return true
}

// Snapshot returns a copy of the current series, oldest first. The copy
// is safe to read while appends continue.
func (b *Buffer) Snapshot() []EquityPoint {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]EquityPoint, len(b.points))
	copy(out, b.points)
	return out
}

// Len reports the number of retained points.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.points)
}

// Last returns the most recent point, if any.
func (b *Buffer) Last() (EquityPoint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.points) == 0 {
		return EquityPoint{}, false
	}
	return b.points[len(b.points)-1], true
}
