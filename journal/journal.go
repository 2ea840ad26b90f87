// Package journal writes an append-only session log of what the console
// observed: accepted equity points and trade executions. It is a
// write-only audit trail; nothing in the console ever restores state
// from it.
package journal

import (
	"time"

	"github.com/rustyeddy/harvester/engine"
)

// EquityEntry is one accepted status observation worth logging.
type EquityEntry struct {
	Time        time.Time
	Equity      float64
	Cash        float64
	BTC         float64
	DrawdownPct float64
}

// Journal records observations for later analysis.
type Journal interface {
	RecordEquity(EquityEntry) error
	RecordTrade(engine.TradeRecord) error
	Close() error
}

// Nop discards everything. Useful when journaling is disabled.
type Nop struct{}

func (Nop) RecordEquity(EquityEntry) error       { return nil }
func (Nop) RecordTrade(engine.TradeRecord) error { return nil }
func (Nop) Close() error                         { return nil }
