package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"premarket-screener/internal/models"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the journal database at dbPath.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		price REAL NOT NULL,
		percent_change REAL NOT NULL,
		volume INTEGER NOT NULL,
		relative_volume REAL,
		market_cap_millions REAL NOT NULL,
		sent_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_sent_at ON alerts(sent_at);
	CREATE INDEX IF NOT EXISTS idx_alerts_symbol ON alerts(symbol);

	CREATE TABLE IF NOT EXISTS summaries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_count INTEGER NOT NULL,
		sent_at DATETIME NOT NULL
	);
	`
	_, err := j.db.Exec(schema)
	return err
}

// RecordAlert journals one sent alert.
func (j *SQLiteJournal) RecordAlert(ctx context.Context, res models.ScreenResult, at time.Time) error {
	var relVol sql.NullFloat64
	if res.RelativeVolume != nil {
		relVol = sql.NullFloat64{Float64: *res.RelativeVolume, Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO alerts (symbol, price, percent_change, volume, relative_volume, market_cap_millions, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.Symbol, res.Price, res.PercentChange, res.Volume, relVol, res.MarketCapMillions, at.UTC())
	if err != nil {
		return fmt.Errorf("recording alert for %s: %w", res.Symbol, err)
	}
	return nil
}

// RecordSummary journals one sent rollup.
func (j *SQLiteJournal) RecordSummary(ctx context.Context, at time.Time, matchCount int) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO summaries (match_count, sent_at) VALUES (?, ?)`,
		matchCount, at.UTC())
	if err != nil {
		return fmt.Errorf("recording summary: %w", err)
	}
	return nil
}

// RecentAlerts returns the most recently sent alerts, newest first.
func (j *SQLiteJournal) RecentAlerts(ctx context.Context, limit int) ([]AlertRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, symbol, price, percent_change, volume, relative_volume, market_cap_millions, sent_at
		FROM alerts ORDER BY sent_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var records []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		var relVol sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Price, &rec.PercentChange,
			&rec.Volume, &relVol, &rec.MarketCapMillions, &rec.SentAt); err != nil {
			return nil, fmt.Errorf("scanning alert row: %w", err)
		}
		if relVol.Valid {
			rv := relVol.Float64
			rec.RelativeVolume = &rv
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
