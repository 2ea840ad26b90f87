// Package risk maps engine status snapshots to a discrete display risk
// level. It mirrors the remote engine's circuit-breaker semantics for the
// operator's benefit only; the engine owns the actual breaker and this
// package never triggers or clears anything.
package risk

import (
	"fmt"

	"github.com/rustyeddy/harvester/engine"
)

// Level is the display risk classification.
type Level int

const (
	Nominal Level = iota
	Warning
	Danger
)

func (l Level) String() string {
	switch l {
	case Nominal:
		return "nominal"
	case Warning:
		return "warning"
	case Danger:
		return "danger"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Limits are the thresholds the classifier measures against. They should
// be seeded from the engine's own /config so the display agrees with the
// breaker the engine will actually trip.
type Limits struct {
	MaxDrawdownPct float64
}

// DefaultMaxDrawdownPct matches the engine's default breaker threshold.
const DefaultMaxDrawdownPct = 20.0

// DefaultLimits returns the limits used when the engine config is
// unavailable.
func DefaultLimits() Limits {
	return Limits{MaxDrawdownPct: DefaultMaxDrawdownPct}
}

// Assessment is the classification plus the human-readable cause.
type Assessment struct {
	Level Level
	Cause string
}

// Classify derives the display risk level for one snapshot.
//
// With ratio = drawdown / max drawdown: danger when the engine is paused
// or ratio > 0.75; warning when 0.5 < ratio <= 0.75; nominal otherwise.
// Both lower bounds are exclusive, so a drawdown of exactly half the
// limit still reads nominal.
//
// Pure projection: recomputed per snapshot, never stored.
func Classify(s engine.StatusSnapshot, limits Limits) Assessment {
	maxDD := limits.MaxDrawdownPct
	if maxDD <= 0 {
		maxDD = DefaultMaxDrawdownPct
	}

	if s.Paused || s.State == engine.StatePaused {
		cause := s.PauseReason
		if cause == "" {
			cause = "circuit breaker active"
		}
		return Assessment{Level: Danger, Cause: cause}
	}

	ratio := s.DrawdownPct / maxDD
	cause := fmt.Sprintf("drawdown %.2f%% of %.2f%% limit", s.DrawdownPct, maxDD)

	switch {
	case ratio > 0.75:
		return Assessment{Level: Danger, Cause: cause}
	case ratio > 0.5:
		return Assessment{Level: Warning, Cause: cause}
	default:
		return Assessment{Level: Nominal, Cause: cause}
	}
}
