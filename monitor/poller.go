// Package monitor owns the synchronization loop between the remote
// engine and the console: it polls (or receives pushed) status
// snapshots, enforces monotonic acceptance, maintains derived history,
// risk and trade-feed state, and publishes immutable Views.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/harvester/engine"
	"github.com/rustyeddy/harvester/feed"
	"github.com/rustyeddy/harvester/history"
	"github.com/rustyeddy/harvester/journal"
	"github.com/rustyeddy/harvester/risk"
)

const (
	// DefaultInterval is the poll cadence.
	DefaultInterval = 2 * time.Second
	// staleMultiple of the interval without an accepted snapshot flips
	// the view to Disconnected.
	staleMultiple = 3
)

// StatusSource fetches one status snapshot. *engine.Client satisfies it.
type StatusSource interface {
	Status(ctx context.Context) (engine.StatusSnapshot, error)
}

// Options tune the poller. Zero values select defaults.
type Options struct {
	Interval   time.Duration // poll cadence, default 2s
	Timeout    time.Duration // per-poll bound, default Interval
	StaleAfter time.Duration // disconnected threshold, default 3×Interval

	Limits          risk.Limits
	HistoryCapacity int
	FeedWindow      int

	// Journal, when set, receives every accepted equity point and trade.
	Journal journal.Journal

	Logger zerolog.Logger
}

// Poller is the sole source of new snapshots. It is the only writer to
// the history buffer and trade feed; everything else reads.
type Poller struct {
	src        StatusSource
	stream     *engine.Stream
	interval   time.Duration
	timeout    time.Duration
	staleAfter time.Duration
	limits     risk.Limits
	jrnl       journal.Journal
	log        zerolog.Logger

	hist *history.Buffer
	feed *feed.Feed

	mu           sync.RWMutex
	view         View
	hasView      bool
	lastAccepted time.Time
	sessionStart time.Time
	failures     int
	subs         []chan View
}

// New creates a poller over src. Call Run to start the loop.
func New(src StatusSource, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = opts.Interval
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = staleMultiple * opts.Interval
	}
	if opts.Limits.MaxDrawdownPct <= 0 {
		opts.Limits = risk.DefaultLimits()
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}

	return &Poller{
		src:        src,
		interval:   opts.Interval,
		timeout:    opts.Timeout,
		staleAfter: opts.StaleAfter,
		limits:     opts.Limits,
		jrnl:       opts.Journal,
		log:        opts.Logger,
		hist:       history.NewBuffer(opts.HistoryCapacity),
		feed:       feed.New(opts.FeedWindow),
	}
}

// AttachStream adds a push subscription as a second snapshot source.
// Pushed and polled snapshots pass through the same acceptance rule, in
// the same loop goroutine, so ordering guarantees are unchanged. Must be
// called before Run.
func (p *Poller) AttachStream(s *engine.Stream) {
	p.stream = s
}

// Run drives the loop until ctx is cancelled: one immediate poll, then
// one per interval. At most one poll is outstanding at any time; the
// next is not issued while one is in flight. When ctx ends the ticker
// is stopped and any attached stream closed before Run returns, so no
// poll fires after teardown.
func (p *Poller) Run(ctx context.Context) error {
	p.mu.Lock()
	p.sessionStart = time.Now()
	p.mu.Unlock()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		snapshots <-chan engine.StatusSnapshot
		trades    <-chan engine.TradeRecord
		streamErr <-chan error
	)
	if p.stream != nil {
		snapshots = p.stream.Snapshots()
		trades = p.stream.Trades()
		streamErr = p.stream.Errs()
		defer p.stream.Close()
	}

	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			p.pollOnce(ctx)

		case snap := <-snapshots:
			p.ingest(snap)

		case t := <-trades:
			p.RecordTrade(t)

		case err := <-streamErr:
			// The push channel is an optimization; losing it only means
			// we are back on the poll cadence.
			p.log.Warn().Err(err).Msg("push stream failed, continuing on poll cadence")
			snapshots, trades, streamErr = nil, nil, nil
		}
	}
}

// pollOnce performs one bounded poll. The fetch is synchronous, which is
// what bounds outstanding polls to one.
func (p *Poller) pollOnce(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	snap, err := p.src.Status(pollCtx)
	if err != nil {
		if ctx.Err() != nil {
			return // teardown, not a poll failure
		}
		p.recordFailure(err)
		return
	}
	p.ingest(snap)
}

// ingest applies the acceptance rule: a snapshot is accepted iff it is
// the first of the session or strictly newer than the last accepted one.
// Rejected snapshots are dropped silently, which makes duplicate pushes
// and retried polls idempotent.
func (p *Poller) ingest(snap engine.StatusSnapshot) {
	p.mu.Lock()

	p.failures = 0
	accepted := p.lastAccepted.IsZero() || snap.Time.After(p.lastAccepted)
	if !accepted {
		// A successful fetch still clears degraded state even when the
		// payload is stale.
		p.view.ConsecutiveFailures = 0
		p.view.LastError = ""
		p.view.Connectivity = p.connectivityLocked(time.Now())
		view := p.view
		p.mu.Unlock()
		p.publish(view)
		return
	}
	p.lastAccepted = snap.Time
	p.mu.Unlock()

	p.hist.Append(history.EquityPoint{
		Time:        snap.Time,
		Equity:      snap.Equity,
		DrawdownPct: snap.DrawdownPct,
	})
	if err := p.jrnl.RecordEquity(journal.EquityEntry{
		Time:        snap.Time,
		Equity:      snap.Equity,
		Cash:        snap.Cash,
		BTC:         snap.BTC,
		DrawdownPct: snap.DrawdownPct,
	}); err != nil {
		p.log.Warn().Err(err).Msg("journal equity write failed")
	}

	points := p.hist.Snapshot()

	p.mu.Lock()
	p.view = View{
		Snapshot:     snap,
		HasSnapshot:  true,
		Connectivity: p.connectivityLocked(time.Now()),
		Risk:         risk.Classify(snap, p.limits),
		Trades:       p.feed.Summary(),
		History:      points,
		Forecast:     history.Predict(points, history.DefaultHorizon, history.DefaultStep),
	}
	p.hasView = true
	view := p.view
	p.mu.Unlock()

	p.publish(view)
}

// RecordTrade feeds one executed trade into the aggregator and journal.
// Stream intake calls this from the loop goroutine; it is also the entry
// point for any independent trade source.
func (p *Poller) RecordTrade(t engine.TradeRecord) {
	p.feed.Record(t)
	if err := p.jrnl.RecordTrade(t); err != nil {
		p.log.Warn().Err(err).Msg("journal trade write failed")
	}

	p.mu.Lock()
	p.view.Trades = p.feed.Summary()
	view := p.view
	ok := p.hasView
	p.mu.Unlock()

	if ok {
		p.publish(view)
	}
}

// recordFailure notes a failed poll without discarding the last known
// snapshot. The dashboard keeps showing last-known values; only the
// connectivity signal changes.
func (p *Poller) recordFailure(err error) {
	p.mu.Lock()
	p.failures++
	p.view.ConsecutiveFailures = p.failures
	p.view.LastError = err.Error()
	p.view.Connectivity = p.connectivityLocked(time.Now())
	view := p.view
	p.mu.Unlock()

	p.log.Warn().Err(err).Int("consecutive_failures", view.ConsecutiveFailures).
		Msg("status poll failed")
	p.publish(view)
}

// connectivityLocked derives the connectivity signal. Caller holds p.mu.
func (p *Poller) connectivityLocked(now time.Time) Connectivity {
	baseline := p.lastAccepted
	if baseline.IsZero() {
		baseline = p.sessionStart
	}
	if !baseline.IsZero() && now.Sub(baseline) > p.staleAfter {
		return Disconnected
	}
	if p.failures > 0 {
		return Degraded
	}
	return Live
}

// Latest returns the current view. ok is false until the first poll
// cycle has produced one.
func (p *Poller) Latest() (View, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view, p.hasView || p.failures > 0
}

// Subscribe returns a channel receiving each published view. Sends are
// non-blocking: a slow consumer misses intermediate views, never the
// ability to catch up to the latest.
func (p *Poller) Subscribe(buffer int) <-chan View {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan View, buffer)

	p.mu.Lock()
	p.subs = append(p.subs, ch)
	p.mu.Unlock()

	return ch
}

func (p *Poller) publish(view View) {
	p.mu.RLock()
	subs := p.subs
	p.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- view:
		default:
			// Drop for slow consumers; the latest view is always
			// available via Latest.
		}
	}
}

// History exposes the equity buffer for read-only use.
func (p *Poller) History() *history.Buffer { return p.hist }

// Feed exposes the trade feed for read-only use.
func (p *Poller) Feed() *feed.Feed { return p.feed }
