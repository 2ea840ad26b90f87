package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/harvester/engine"
)

// CSV journals observations into two flat files, one for trades and one
// for equity points.
type CSV struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

// NewCSV creates (truncating) the two journal files and writes headers.
func NewCSV(tradesPath, equityPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := tw.Write([]string{"ts", "side", "qty", "price", "fee", "is_maker", "pnl", "reason"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"time", "equity", "cash", "btc", "drawdown_pct"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSV{trades: tw, equity: ew, tf: tf, ef: ef}, nil
}

func (j *CSV) RecordTrade(t engine.TradeRecord) error {
	pnl := ""
	if t.PnL != nil {
		pnl = f(*t.PnL)
	}
	err := j.trades.Write([]string{
		t.Time.Format(time.RFC3339),
		string(t.Side),
		f(t.Quantity),
		f(t.Price),
		f(t.Fee),
		strconv.FormatBool(t.IsMaker),
		pnl,
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) RecordEquity(e EquityEntry) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		f(e.Equity),
		f(e.Cash),
		f(e.BTC),
		f(e.DrawdownPct),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
