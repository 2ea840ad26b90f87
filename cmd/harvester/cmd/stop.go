package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/harvester/control"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop trading",
	Long: `Stop whatever trader is currently running on the engine. The engine's
rejection (e.g. nothing running) is reported verbatim; the request is
never retried automatically.`,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	machine := control.NewMachine(newClient(cfg), newLogger())
	receipt, err := machine.Submit(cmd.Context(), control.Request{Action: control.Stop})
	if err != nil {
		return err
	}

	fmt.Printf("Trading stopped (attempt %s).\n", receipt.AttemptID)
	if receipt.Message != "" {
		fmt.Println(receipt.Message)
	}
	return nil
}
