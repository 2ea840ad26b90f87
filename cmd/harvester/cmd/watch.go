package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/harvester/config"
	"github.com/rustyeddy/harvester/engine"
	"github.com/rustyeddy/harvester/journal"
	"github.com/rustyeddy/harvester/monitor"
	"github.com/rustyeddy/harvester/risk"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch live engine status until interrupted",
	Long: `Watch polls the engine status at a fixed cadence (and subscribes to the
push channel when configured), printing one line per update with equity,
drawdown, risk classification and trade aggregates.

The display keeps showing last known values through transient failures;
after the staleness threshold it flags the link as disconnected. Ctrl-C
stops the watch and tears the poll loop down cleanly.

Example:
  harvester watch --api http://localhost:8000`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	client := newClient(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := pollerOptions(ctx, cfg, client, log)
	if err != nil {
		return err
	}
	if opts.Journal != nil {
		defer opts.Journal.Close()
	}

	p := monitor.New(client, opts)

	if cfg.Engine.StreamURL != "" {
		stream, err := engine.DialStream(ctx, cfg.Engine.StreamURL, log)
		if err != nil {
			// Push is optional; fall back to the poll cadence.
			log.Warn().Err(err).Str("url", cfg.Engine.StreamURL).
				Msg("push channel unavailable, polling only")
		} else {
			p.AttachStream(stream)
		}
	}

	views := p.Subscribe(16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Run(ctx)
	}()

	fmt.Printf("Watching %s (interval %s). Ctrl-C to stop.\n", cfg.Engine.BaseURL, opts.Interval)

	var last monitor.View
	for {
		select {
		case <-ctx.Done():
			<-done
			printForecast(last)
			return nil
		case v := <-views:
			last = v
			printView(v)
		}
	}
}

// pollerOptions builds monitor options from config, seeding the risk
// limit from the engine's own /config when the console config does not
// pin one.
func pollerOptions(ctx context.Context, cfg *config.Config, client *engine.Client, log zerolog.Logger) (monitor.Options, error) {
	opts := monitor.Options{
		Limits:          risk.Limits{MaxDrawdownPct: cfg.Risk.MaxDrawdownPct},
		HistoryCapacity: cfg.History.Capacity,
		FeedWindow:      cfg.Feed.Window,
		Logger:          log,
	}

	var err error
	if opts.Interval, err = cfg.Poll.ParseInterval(); err != nil {
		return monitor.Options{}, fmt.Errorf("poll.interval: %w", err)
	}
	if opts.Timeout, err = cfg.Poll.ParseTimeout(); err != nil {
		return monitor.Options{}, fmt.Errorf("poll.timeout: %w", err)
	}
	if opts.StaleAfter, err = cfg.Poll.ParseStaleAfter(); err != nil {
		return monitor.Options{}, fmt.Errorf("poll.stale_after: %w", err)
	}
	if opts.Interval <= 0 {
		opts.Interval = monitor.DefaultInterval
	}

	if opts.Limits.MaxDrawdownPct <= 0 {
		// Best effort: mirror the breaker threshold the engine will
		// actually trip. Offline engines fall back to the default.
		if ec, err := client.Config(ctx); err == nil && ec.MaxDrawdownPct > 0 {
			opts.Limits.MaxDrawdownPct = ec.MaxDrawdownPct
		} else if err != nil {
			log.Warn().Err(err).Msg("engine config unavailable, using default risk limits")
		}
	}

	if opts.Journal, err = journalFromConfig(cfg.Journal); err != nil {
		return monitor.Options{}, err
	}

	return opts, nil
}

func printView(v monitor.View) {
	if !v.HasSnapshot {
		fmt.Printf("%-12s no data yet (failures %d) %s\n",
			v.Connectivity, v.ConsecutiveFailures, v.LastError)
		return
	}

	s := v.Snapshot
	line := fmt.Sprintf("%s %-12s equity $%.2f  dd %.2f%%  pnl %+.2f/%+.2f  risk %s",
		s.Time.Format("15:04:05"), v.Connectivity,
		s.Equity, s.DrawdownPct, s.RealizedPnL, s.UnrealizedPnL, v.Risk.Level)
	if v.Risk.Level != risk.Nominal {
		line += fmt.Sprintf(" (%s)", v.Risk.Cause)
	}
	line += fmt.Sprintf("  trades %d (%dW/%dL) fees $%.2f",
		v.Trades.Count, v.Trades.Winners, v.Trades.Losers, v.Trades.TotalFees)
	if v.Connectivity != monitor.Live {
		line += fmt.Sprintf("  [failures %d]", v.ConsecutiveFailures)
	}
	fmt.Println(line)
}

func printForecast(v monitor.View) {
	if len(v.Forecast) == 0 {
		return
	}
	fmt.Println("\nTrend projection (linear, visual cue only):")
	for _, p := range v.Forecast {
		fmt.Printf("  %s  $%.2f\n", p.Time.Format("15:04"), p.Equity)
	}
}

func journalFromConfig(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
