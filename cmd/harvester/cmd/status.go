package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/harvester/risk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the engine's current status once",
	Long: `Status performs a single poll and prints the engine's reported state,
equity, PnL and the derived risk classification.

Example:
  harvester status --api http://localhost:8000`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)
	ctx := cmd.Context()

	snap, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}

	limits := risk.Limits{MaxDrawdownPct: cfg.Risk.MaxDrawdownPct}
	if limits.MaxDrawdownPct <= 0 {
		if ec, err := client.Config(ctx); err == nil && ec.MaxDrawdownPct > 0 {
			limits.MaxDrawdownPct = ec.MaxDrawdownPct
		}
	}
	assessment := risk.Classify(snap, limits)

	running := "stopped"
	if snap.Running {
		running = "running"
	}

	fmt.Printf("Engine:     %s (%s)\n", cfg.Engine.BaseURL, running)
	if snap.Mode != "" {
		fmt.Printf("Mode:       %s\n", snap.Mode)
	}
	if snap.State != "" {
		fmt.Printf("Position:   %s\n", snap.State)
	}
	if snap.Paused {
		reason := snap.PauseReason
		if reason == "" {
			reason = "circuit breaker active"
		}
		fmt.Printf("Paused:     yes (%s)\n", reason)
	}
	fmt.Printf("Equity:     $%.2f (cash $%.2f, btc %.6f)\n", snap.Equity, snap.Cash, snap.BTC)
	fmt.Printf("PnL:        realized %+.2f, unrealized %+.2f\n", snap.RealizedPnL, snap.UnrealizedPnL)
	fmt.Printf("Trades:     %d (win rate %.1f%%)\n", snap.TotalTrades, snap.WinRate)
	fmt.Printf("Drawdown:   %.2f%%\n", snap.DrawdownPct)
	fmt.Printf("Risk:       %s (%s)\n", assessment.Level, assessment.Cause)

	return nil
}
