// Package engine is the client-side contract with the remote trading
// engine: the wire types it exposes, an HTTP client for its control API,
// and an optional websocket stream for pushed updates. The engine itself
// (strategy, execution, breaker logic) lives elsewhere; nothing in this
// package makes trading decisions.
package engine

import (
	"fmt"
	"time"
)

// PositionState mirrors the engine's strategy state machine.
type PositionState string

const (
	StateFlat   PositionState = "flat"   // no position
	StateLong   PositionState = "long"   // long position open
	StatePaused PositionState = "paused" // circuit breaker tripped
)

// StatusSnapshot is one immutable observation of remote engine state.
//
// Field names match the engine's /status JSON. Time is optional on the
// wire; when the engine omits it the client stamps receipt time, so every
// snapshot in this process carries a usable ordering timestamp.
type StatusSnapshot struct {
	Time          time.Time     `json:"timestamp,omitempty"`
	Running       bool          `json:"running"`
	Mode          string        `json:"mode,omitempty"`
	State         PositionState `json:"state"`
	Paused        bool          `json:"paused"`
	PauseReason   string        `json:"pause_reason,omitempty"`
	Equity        float64       `json:"equity"`
	Cash          float64       `json:"cash"`
	BTC           float64       `json:"btc"`
	RealizedPnL   float64       `json:"realized_pnl"`
	UnrealizedPnL float64       `json:"unrealized_pnl"`
	TotalTrades   int           `json:"total_trades"`
	WinRate       float64       `json:"win_rate"`
	DrawdownPct   float64       `json:"drawdown_pct"`
}

// Validate checks the snapshot against the engine's own invariants.
// A violation means the response shape is fine but the values are not
// trustworthy; callers treat it like a protocol error and discard.
func (s StatusSnapshot) Validate() error {
	switch s.State {
	case StateFlat, StateLong, StatePaused, "":
	default:
		return fmt.Errorf("unknown position state %q", s.State)
	}
	if s.State == StatePaused && !s.Paused {
		return fmt.Errorf("state is %q but paused flag is false", StatePaused)
	}
	if s.DrawdownPct < 0 {
		return fmt.Errorf("negative drawdown %.4f", s.DrawdownPct)
	}
	if s.TotalTrades < 0 {
		return fmt.Errorf("negative total trades %d", s.TotalTrades)
	}
	if s.WinRate < 0 || s.WinRate > 100 {
		return fmt.Errorf("win rate %.4f outside [0,100]", s.WinRate)
	}
	return nil
}

// Side is the direction of an executed trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// TradeRecord is one executed trade as reported by the engine.
// PnL is nil for entry fills; only exits carry a realized figure.
type TradeRecord struct {
	Time     time.Time `json:"ts"`
	Side     Side      `json:"side"`
	Quantity float64   `json:"qty"`
	Price    float64   `json:"price"`
	Fee      float64   `json:"fee"`
	IsMaker  bool      `json:"is_maker"`
	PnL      *float64  `json:"pnl,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// Config is the engine's active configuration, as served by /config.
type Config struct {
	Exchange             string  `json:"exchange"`
	Symbol               string  `json:"symbol"`
	Mode                 string  `json:"mode"`
	BuyThresholdPct      float64 `json:"buy_threshold_pct"`
	SellThresholdPct     float64 `json:"sell_threshold_pct"`
	AdaptiveThresholds   bool    `json:"adaptive_thresholds"`
	MaxDrawdownPct       float64 `json:"max_drawdown_pct"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
	MakerFirst           bool    `json:"maker_first"`
	ReservePct           float64 `json:"reserve_pct"`
}

// Health is the /healthz probe response.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Mode      string `json:"mode"`
}

// StartRequest starts trading in paper or live mode.
type StartRequest struct {
	Mode           string   `json:"mode"` // "paper" or "live"
	InitialCapital *float64 `json:"initial_capital,omitempty"`
}

// Ack is the engine's acknowledgement of a mutating request. Message is
// free-form operator text ("LIVE TRADING ACTIVE - REAL MONEY AT RISK").
type Ack struct {
	Status  string `json:"status"`
	Mode    string `json:"mode,omitempty"`
	Message string `json:"message,omitempty"`
}

// BacktestRequest is passed through to the engine verbatim; the console
// neither schedules nor interprets backtests beyond displaying the result.
type BacktestRequest struct {
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date,omitempty"`
	InitialCapital     float64  `json:"initial_capital,omitempty"`
	BuyThresholdPct    *float64 `json:"buy_threshold_pct,omitempty"`
	SellThresholdPct   *float64 `json:"sell_threshold_pct,omitempty"`
	AdaptiveThresholds *bool    `json:"adaptive_thresholds,omitempty"`
}

// BacktestResult is the engine's backtest summary record.
type BacktestResult struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalCapital   float64 `json:"final_capital"`
	TotalPnL       float64 `json:"total_pnl"`
	TotalPnLPct    float64 `json:"total_pnl_pct"`
	TotalTrades    int     `json:"total_trades"`
	WinRate        float64 `json:"win_rate"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	SortinoRatio   float64 `json:"sortino_ratio"`
	CAGR           float64 `json:"cagr"`
	TotalFeesPaid  float64 `json:"total_fees_paid"`
}
