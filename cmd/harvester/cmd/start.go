package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/harvester/control"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start trading in paper or live mode",
	Long: `Start trading on the engine.

Paper mode starts immediately. Live mode risks real money and is gated
behind an explicit confirmation prompt; nothing is sent to the engine
until the prompt is answered.

Examples:
  harvester start --mode paper --capital 10000
  harvester start --mode live`,
	RunE: runStart,
}

var (
	startMode    string
	startCapital float64
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&startMode, "mode", "m", "paper", "trading mode: paper or live")
	startCmd.Flags().Float64VarP(&startCapital, "capital", "c", 0, "initial capital (engine default when omitted)")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var action control.Action
	switch startMode {
	case "paper":
		action = control.StartPaper
	case "live":
		action = control.StartLive
	default:
		return fmt.Errorf("mode must be \"paper\" or \"live\", got %q", startMode)
	}

	req := control.Request{Action: action}
	if startCapital > 0 {
		capital := startCapital
		req.InitialCapital = &capital
	}

	machine := control.NewMachine(newClient(cfg), newLogger())
	ctx := cmd.Context()

	receipt, err := machine.Submit(ctx, req)
	if err != nil {
		return err
	}

	if receipt == nil {
		// Awaiting confirmation: live trading only starts on an exact answer.
		fmt.Printf("About to start LIVE trading on %s with REAL MONEY.\n", cfg.Engine.BaseURL)
		if !promptExact("Type 'live' to confirm: ", "live") {
			_ = machine.Cancel()
			fmt.Println("Cancelled. Nothing was sent to the engine.")
			return nil
		}
		receipt, err = machine.Confirm(ctx, action)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Started %s trading (attempt %s).\n", startMode, receipt.AttemptID)
	if receipt.Message != "" {
		fmt.Println(receipt.Message)
	}
	return nil
}

// promptExact reads one line from stdin and requires an exact match.
func promptExact(prompt, want string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == want
}
