package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the engine's active configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ec, err := client.Config(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch engine config: %w", err)
	}

	fmt.Printf("Exchange:               %s\n", ec.Exchange)
	fmt.Printf("Symbol:                 %s\n", ec.Symbol)
	fmt.Printf("Mode:                   %s\n", ec.Mode)
	fmt.Printf("Buy threshold:          %.2f%%\n", ec.BuyThresholdPct)
	fmt.Printf("Sell threshold:         %.2f%%\n", ec.SellThresholdPct)
	fmt.Printf("Adaptive thresholds:    %t\n", ec.AdaptiveThresholds)
	fmt.Printf("Max drawdown:           %.2f%%\n", ec.MaxDrawdownPct)
	fmt.Printf("Max consecutive losses: %d\n", ec.MaxConsecutiveLosses)
	fmt.Printf("Maker first:            %t\n", ec.MakerFirst)
	fmt.Printf("Reserve:                %.2f%%\n", ec.ReservePct)

	return nil
}
