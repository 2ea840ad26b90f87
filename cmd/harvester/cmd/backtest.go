package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/harvester/engine"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest on the engine",
	Long: `Backtest submits a backtest request to the engine and prints the result
record. The backtest runs entirely on the engine against its own candle
store; the console is a pass-through.

Example:
  harvester backtest --start 2024-01-01 --end 2024-06-30 --capital 10000`,
	RunE: runBacktest,
}

var (
	btStart    string
	btEnd      string
	btCapital  float64
	btBuyPct   float64
	btSellPct  float64
	btAdaptive bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&btStart, "start", "", "start date, ISO format (required)")
	backtestCmd.Flags().StringVar(&btEnd, "end", "", "end date, ISO format")
	backtestCmd.Flags().Float64Var(&btCapital, "capital", 10000, "initial capital")
	backtestCmd.Flags().Float64Var(&btBuyPct, "buy-threshold", 0, "buy threshold %% (engine default when omitted)")
	backtestCmd.Flags().Float64Var(&btSellPct, "sell-threshold", 0, "sell threshold %% (engine default when omitted)")
	backtestCmd.Flags().BoolVar(&btAdaptive, "adaptive", true, "adaptive thresholds")
	backtestCmd.MarkFlagRequired("start")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	req := engine.BacktestRequest{
		StartDate:          btStart,
		EndDate:            btEnd,
		InitialCapital:     btCapital,
		AdaptiveThresholds: &btAdaptive,
	}
	if btBuyPct > 0 {
		req.BuyThresholdPct = &btBuyPct
	}
	if btSellPct > 0 {
		req.SellThresholdPct = &btSellPct
	}

	fmt.Printf("Running backtest on %s (%s .. %s)...\n", cfg.Engine.BaseURL, btStart, orNow(btEnd))
	res, err := client.Backtest(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	fmt.Printf("\nBacktest Results:\n")
	fmt.Printf("  Initial capital: $%.2f\n", res.InitialCapital)
	fmt.Printf("  Final capital:   $%.2f\n", res.FinalCapital)
	fmt.Printf("  Total PnL:       $%.2f (%.2f%%)\n", res.TotalPnL, res.TotalPnLPct)
	fmt.Printf("  Trades:          %d (win rate %.1f%%)\n", res.TotalTrades, res.WinRate)
	fmt.Printf("  Max drawdown:    %.2f%%\n", res.MaxDrawdownPct)
	fmt.Printf("  Sharpe:          %.2f\n", res.SharpeRatio)
	fmt.Printf("  Sortino:         %.2f\n", res.SortinoRatio)
	fmt.Printf("  CAGR:            %.2f%%\n", res.CAGR)
	fmt.Printf("  Fees paid:       $%.2f\n", res.TotalFeesPaid)

	return nil
}

func orNow(end string) string {
	if end == "" {
		return "now"
	}
	return end
}
