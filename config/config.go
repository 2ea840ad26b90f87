// Package config loads and validates the console configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete console configuration.
type Config struct {
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Poll    PollConfig    `json:"poll" yaml:"poll"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	History HistoryConfig `json:"history" yaml:"history"`
	Feed    FeedConfig    `json:"feed" yaml:"feed"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// EngineConfig locates the remote trading engine.
type EngineConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	// StreamURL enables the push channel when set (e.g. ws://host/ws).
	StreamURL string `json:"stream_url,omitempty" yaml:"stream_url,omitempty"`
	Token     string `json:"token,omitempty" yaml:"token,omitempty"`
}

// PollConfig tunes the status poll loop. Durations are strings like
// "2s" or "500ms".
type PollConfig struct {
	Interval   string `json:"interval,omitempty" yaml:"interval,omitempty"`
	Timeout    string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	StaleAfter string `json:"stale_after,omitempty" yaml:"stale_after,omitempty"`
}

// ParseInterval converts the interval string to a time.Duration.
func (p PollConfig) ParseInterval() (time.Duration, error) { return parseDuration(p.Interval) }

// ParseTimeout converts the timeout string to a time.Duration.
func (p PollConfig) ParseTimeout() (time.Duration, error) { return parseDuration(p.Timeout) }

// ParseStaleAfter converts the staleness threshold to a time.Duration.
func (p PollConfig) ParseStaleAfter() (time.Duration, error) { return parseDuration(p.StaleAfter) }

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// RiskConfig holds display classification thresholds. Zero means "take
// the limit from the engine's /config, falling back to the default".
type RiskConfig struct {
	MaxDrawdownPct float64 `json:"max_drawdown_pct,omitempty" yaml:"max_drawdown_pct,omitempty"`
}

// HistoryConfig bounds the equity history buffer.
type HistoryConfig struct {
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// FeedConfig bounds the trade display window.
type FeedConfig struct {
	Window int `json:"window,omitempty" yaml:"window,omitempty"`
}

// JournalConfig selects the session observation log backend.
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for usability.
func (c *Config) Validate() error {
	if c.Engine.BaseURL == "" {
		return fmt.Errorf("engine.base_url is required")
	}
	if !strings.HasPrefix(c.Engine.BaseURL, "http://") && !strings.HasPrefix(c.Engine.BaseURL, "https://") {
		return fmt.Errorf("engine.base_url must be an http(s) URL")
	}
	if c.Engine.StreamURL != "" &&
		!strings.HasPrefix(c.Engine.StreamURL, "ws://") && !strings.HasPrefix(c.Engine.StreamURL, "wss://") {
		return fmt.Errorf("engine.stream_url must be a ws(s) URL")
	}

	for name, val := range map[string]string{
		"poll.interval":    c.Poll.Interval,
		"poll.timeout":     c.Poll.Timeout,
		"poll.stale_after": c.Poll.StaleAfter,
	} {
		if _, err := parseDuration(val); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.Risk.MaxDrawdownPct < 0 {
		return fmt.Errorf("risk.max_drawdown_pct must not be negative")
	}
	if c.History.Capacity < 0 {
		return fmt.Errorf("history.capacity must not be negative")
	}
	if c.Feed.Window < 0 {
		return fmt.Errorf("feed.window must not be negative")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or empty")
	}
	return nil
}

// Default returns a configuration with sensible defaults for a local
// engine.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			BaseURL: "http://localhost:8000",
		},
		Poll: PollConfig{
			Interval: "2s",
		},
	}
}
