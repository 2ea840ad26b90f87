package journal

import (
	"database/sql"
	"time"

	"github.com/rustyeddy/harvester/engine"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite journals observations into a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the journal database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordEquity(e EquityEntry) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (time, equity, cash, btc, drawdown_pct)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Equity, e.Cash, e.BTC, e.DrawdownPct,
	)
	return err
}

func (j *SQLite) RecordTrade(t engine.TradeRecord) error {
	var pnl sql.NullFloat64
	if t.PnL != nil {
		pnl = sql.NullFloat64{Float64: *t.PnL, Valid: true}
	}
	_, err := j.db.Exec(`
		INSERT INTO trades (ts, side, qty, price, fee, is_maker, pnl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Time, string(t.Side), t.Quantity, t.Price, t.Fee, t.IsMaker, pnl, t.Reason,
	)
	return err
}

// ListTradesBetween returns trades executed within [start, end), oldest
// first.
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]engine.TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT ts, side, qty, price, fee, is_maker, pnl, reason
		FROM trades
		WHERE ts >= ? AND ts < ?
		ORDER BY ts ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.TradeRecord
	for rows.Next() {
		var (
			rec  engine.TradeRecord
			side string
			pnl  sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.Time,
			&side,
			&rec.Quantity,
			&rec.Price,
			&rec.Fee,
			&rec.IsMaker,
			&pnl,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		rec.Side = engine.Side(side)
		if pnl.Valid {
			v := pnl.Float64
			rec.PnL = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity entries within [start, end), oldest
// first.
func (j *SQLite) ListEquityBetween(start, end time.Time) ([]EquityEntry, error) {
	rows, err := j.db.Query(`
		SELECT time, equity, cash, btc, drawdown_pct
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityEntry
	for rows.Next() {
		var e EquityEntry
		if err := rows.Scan(&e.Time, &e.Equity, &e.Cash, &e.BTC, &e.DrawdownPct); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
