package storage

// sqlite.go — espejo consultable del trade history.
//
// El performance log JSON es la autoridad; esta base solo existe para poder
// consultar el histórico entre despliegues y alimentar el report mode.
// Todas las escrituras son best-effort desde el punto de vista del engine:
// un fallo aquí se loguea y el ciclo continúa.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por trade ejecutado o settlement, espejo del trade_history del log
CREATE TABLE IF NOT EXISTS trade_history (
    id            TEXT PRIMARY KEY,
    ts            DATETIME NOT NULL,
    kind          TEXT     NOT NULL,      -- trade | settlement
    market_id     TEXT     NOT NULL,
    question      TEXT,
    side          TEXT     NOT NULL DEFAULT '',
    dollar_amount REAL     NOT NULL DEFAULT 0,
    shares        REAL     NOT NULL DEFAULT 0,
    price         REAL     NOT NULL DEFAULT 0,
    pnl           REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_history_ts     ON trade_history(ts DESC);
CREATE INDEX IF NOT EXISTS idx_history_market ON trade_history(market_id);
`

// SQLiteHistorian implementa ports.TradeHistorian usando SQLite (pure Go, sin CGo).
type SQLiteHistorian struct {
	db *sql.DB
}

// NewSQLiteHistorian abre (o crea) la base de datos en la ruta dada y
// aplica el schema.
func NewSQLiteHistorian(path string) (*SQLiteHistorian, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteHistorian: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteHistorian: apply schema: %w", err)
	}

	return &SQLiteHistorian{db: db}, nil
}

// RecordTrade inserta un registro del trade history. El INSERT OR IGNORE
// hace la operación idempotente: re-espejar el mismo registro tras un
// reinicio no duplica filas.
func (s *SQLiteHistorian) RecordTrade(ctx context.Context, rec domain.TradeRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO trade_history
			(id, ts, kind, market_id, question, side, dollar_amount, shares, price, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UTC(), string(rec.Kind), rec.MarketID, rec.Question,
		string(rec.Side), rec.DollarAmount, rec.Shares, rec.Price, rec.PnL,
	)
	if err != nil {
		return fmt.Errorf("storage.RecordTrade: insert %s: %w", rec.ID, err)
	}
	return nil
}

// Stats agrega el histórico espejado.
func (s *SQLiteHistorian) Stats(ctx context.Context) (domain.HistoryStats, error) {
	var stats domain.HistoryStats
	var first, last sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN kind = 'trade' THEN 1 END),
			COUNT(CASE WHEN kind = 'settlement' THEN 1 END),
			COALESCE(SUM(CASE WHEN kind = 'trade' THEN dollar_amount END), 0),
			COALESCE(SUM(CASE WHEN kind = 'settlement' THEN pnl END), 0),
			MIN(ts), MAX(ts)
		FROM trade_history`).Scan(
		&stats.TotalTrades,
		&stats.TotalSettlements,
		&stats.DollarsSpent,
		&stats.RealizedPnL,
		&first, &last,
	)
	if err != nil {
		return stats, fmt.Errorf("storage.Stats: query: %w", err)
	}

	stats.FirstTrade = parseDBTime(first)
	stats.LastTrade = parseDBTime(last)
	return stats, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteHistorian) Close() error {
	return s.db.Close()
}

// parseDBTime parsea los timestamps que SQLite devuelve como texto.
func parseDBTime(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, v.String); err == nil {
			return t
		}
	}
	return time.Time{}
}
