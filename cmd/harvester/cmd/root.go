package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/harvester/config"
	"github.com/rustyeddy/harvester/engine"
)

var rootCmd = &cobra.Command{
	Use:   "harvester",
	Short: "Operator console for the Volatility Harvester trading engine",
	Long: `Harvester is an operator console for a remotely running trading engine.

It provides tools for:
  - Watching live status, equity history and risk classification
  - Starting and stopping trading with explicit confirmation gates
  - Emergency position flattening
  - Running backtests on the engine and viewing results
  - Journaling observed equity and trades to CSV or SQLite

The console only observes and issues control actions; all trading
decisions stay on the engine.`,
}

var (
	flagAPI     string
	flagToken   string
	flagConfig  string
	flagVerbose bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		// .env is optional; used for HARVESTER_API_URL / HARVESTER_API_TOKEN.
		_ = godotenv.Load()
	})

	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "engine base URL (default $HARVESTER_API_URL or http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token for the engine API (default $HARVESTER_API_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "f", "", "path to console config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

// loadConfig merges the config file (if any) with flag and environment
// overrides. Flags win over the file, the file wins over env defaults.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.LoadFromFile(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if v := os.Getenv("HARVESTER_API_URL"); v != "" {
		cfg.Engine.BaseURL = v
	}

	if flagAPI != "" {
		cfg.Engine.BaseURL = flagAPI
	}
	if flagToken != "" {
		cfg.Engine.Token = flagToken
	} else if cfg.Engine.Token == "" {
		cfg.Engine.Token = os.Getenv("HARVESTER_API_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func newClient(cfg *config.Config) *engine.Client {
	var opts []engine.Option
	if cfg.Engine.Token != "" {
		opts = append(opts, engine.WithToken(cfg.Engine.Token))
	}
	return engine.NewClient(cfg.Engine.BaseURL, opts...)
}
