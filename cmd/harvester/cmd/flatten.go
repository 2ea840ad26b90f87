package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/harvester/control"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten",
	Short: "Emergency-liquidate the open position",
	Long: `Flatten tells the engine to liquidate any open position immediately.

This destroys an existing position and cannot be undone, so it is gated
behind its own confirmation prompt, separate from the live-start
confirmation. Nothing is sent to the engine until confirmed.`,
	RunE: runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)
}

func runFlatten(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	machine := control.NewMachine(newClient(cfg), newLogger())
	ctx := cmd.Context()

	receipt, err := machine.Submit(ctx, control.Request{Action: control.EmergencyFlatten})
	if err != nil {
		return err
	}
	if receipt == nil {
		fmt.Printf("About to EMERGENCY FLATTEN the position on %s.\n", cfg.Engine.BaseURL)
		if !promptExact("Type 'FLATTEN' to confirm: ", "FLATTEN") {
			_ = machine.Cancel()
			fmt.Println("Cancelled. Nothing was sent to the engine.")
			return nil
		}
		receipt, err = machine.Confirm(ctx, control.EmergencyFlatten)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Emergency flatten executed (attempt %s).\n", receipt.AttemptID)
	if receipt.Message != "" {
		fmt.Println(receipt.Message)
	}
	return nil
}
