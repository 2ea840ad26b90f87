package journal

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	ts DATETIME NOT NULL,
	side TEXT NOT NULL,
	qty REAL NOT NULL,
	price REAL NOT NULL,
	fee REAL NOT NULL,
	is_maker INTEGER NOT NULL,
	pnl REAL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(ts);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	equity REAL NOT NULL,
	cash REAL NOT NULL,
	btc REAL NOT NULL,
	drawdown_pct REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
