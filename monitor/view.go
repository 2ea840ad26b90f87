package monitor

import (
	"github.com/rustyeddy/harvester/engine"
	"github.com/rustyeddy/harvester/feed"
	"github.com/rustyeddy/harvester/history"
	"github.com/rustyeddy/harvester/risk"
)

// Connectivity is the console's view of the link to the engine. It is
// derived client-side; the engine reports nothing about it.
type Connectivity int

const (
	// Live: the most recent poll or push succeeded and an accepted
	// snapshot is fresh.
	Live Connectivity = iota
	// Degraded: at least one consecutive failure, but the staleness
	// threshold has not been crossed. Last known values remain on
	// display.
	Degraded
	// Disconnected: no accepted snapshot within the staleness threshold.
	// Distinct from a single missed poll.
	Disconnected
)

func (c Connectivity) String() string {
	switch c {
	case Live:
		return "live"
	case Degraded:
		return "degraded"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// View is the immutable dashboard state published after every poll
// cycle. Consumers read it; only the poller builds it.
type View struct {
	// Snapshot is the last accepted engine status. Valid only when
	// HasSnapshot is true; on transient failure it keeps the last known
	// values rather than blanking.
	Snapshot    engine.StatusSnapshot
	HasSnapshot bool

	Connectivity        Connectivity
	ConsecutiveFailures int
	// LastError is the most recent poll failure, empty after a success.
	LastError string

	Risk     risk.Assessment
	Trades   feed.Summary
	History  []history.EquityPoint
	Forecast []history.ProjectedPoint
}
