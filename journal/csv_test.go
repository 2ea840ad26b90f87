package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/harvester/engine"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalWritesBothFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	pnl := -3.25
	require.NoError(t, j.RecordTrade(engine.TradeRecord{
		Time: t0, Side: engine.Sell, Quantity: 0.01, Price: 64000,
		Fee: 0.64, PnL: &pnl, Reason: "stop loss",
	}))
	require.NoError(t, j.RecordTrade(engine.TradeRecord{
		Time: t0.Add(time.Second), Side: engine.Buy, Quantity: 0.01, Price: 63900, Fee: 0.64,
	}))
	require.NoError(t, j.RecordEquity(EquityEntry{
		Time: t0, Equity: 9996.75, Cash: 9996.75, DrawdownPct: 0.03,
	}))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 3)
	assert.Equal(t, []string{"ts", "side", "qty", "price", "fee", "is_maker", "pnl", "reason"}, trades[0])
	assert.Equal(t, "sell", trades[1][1])
	assert.Equal(t, "-3.250000", trades[1][6])
	assert.Equal(t, "stop loss", trades[1][7])
	assert.Equal(t, "", trades[2][6], "entry fill writes empty pnl")

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, []string{"time", "equity", "cash", "btc", "drawdown_pct"}, equity[0])
	assert.Equal(t, t0.Format(time.RFC3339), equity[1][0])
	assert.Equal(t, "9996.750000", equity[1][1])
}

func TestNopJournalIsSilent(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordEquity(EquityEntry{}))
	assert.NoError(t, j.RecordTrade(engine.TradeRecord{}))
	assert.NoError(t, j.Close())
}
