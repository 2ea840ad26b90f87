package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "harvester.yaml", `
engine:
  base_url: http://engine.local:8000
  stream_url: ws://engine.local:8000/ws
  token: abc123
poll:
  interval: 1s
  stale_after: 10s
risk:
  max_drawdown_pct: 15
journal:
  type: sqlite
  db_path: /tmp/session.db
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://engine.local:8000", cfg.Engine.BaseURL)
	assert.Equal(t, "ws://engine.local:8000/ws", cfg.Engine.StreamURL)
	assert.Equal(t, "abc123", cfg.Engine.Token)
	assert.InDelta(t, 15, cfg.Risk.MaxDrawdownPct, 1e-9)
	assert.Equal(t, "sqlite", cfg.Journal.Type)

	iv, err := cfg.Poll.ParseInterval()
	require.NoError(t, err)
	assert.Equal(t, time.Second, iv)

	sa, err := cfg.Poll.ParseStaleAfter()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, sa)
}

func TestLoadJSONFallback(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "harvester.json",
		`{"engine": {"base_url": "https://engine.example.com"}, "feed": {"window": 20}}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://engine.example.com", cfg.Engine.BaseURL)
	assert.Equal(t, 20, cfg.Feed.Window)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8000", cfg.Engine.BaseURL)

	iv, err := cfg.Poll.ParseInterval()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, iv)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.Engine.BaseURL = "" }},
		{"non-http base url", func(c *Config) { c.Engine.BaseURL = "ftp://engine" }},
		{"non-ws stream url", func(c *Config) { c.Engine.StreamURL = "http://engine/ws" }},
		{"bad interval", func(c *Config) { c.Poll.Interval = "two seconds" }},
		{"bad stale_after", func(c *Config) { c.Poll.StaleAfter = "10x" }},
		{"negative drawdown limit", func(c *Config) { c.Risk.MaxDrawdownPct = -1 }},
		{"negative history capacity", func(c *Config) { c.History.Capacity = -1 }},
		{"negative feed window", func(c *Config) { c.Feed.Window = -5 }},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "postgres" }},
		{"csv journal without files", func(c *Config) { c.Journal.Type = "csv" }},
		{"sqlite journal without path", func(c *Config) { c.Journal.Type = "sqlite" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsCompleteJournalConfigs(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Journal = JournalConfig{Type: "csv", TradesFile: "t.csv", EquityFile: "e.csv"}
	assert.NoError(t, cfg.Validate())

	cfg.Journal = JournalConfig{Type: "sqlite", DBPath: "session.db"}
	assert.NoError(t, cfg.Validate())

	cfg.Journal = JournalConfig{Type: "none"}
	assert.NoError(t, cfg.Validate())
}

func TestEmptyDurationsParseToZero(t *testing.T) {
	t.Parallel()

	var p PollConfig
	for _, parse := range []func() (time.Duration, error){
		p.ParseInterval, p.ParseTimeout, p.ParseStaleAfter,
	} {
		d, err := parse()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), d)
	}
}
