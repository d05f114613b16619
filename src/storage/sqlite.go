package storage

import (
	"database/sql"
	"fmt"
	"time"

	"market-reporter/src/logger"
	"market-reporter/src/models"

	_ "modernc.org/sqlite"
)

type AsyncSQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) createTables() error {
	// Report runs survive restarts; daily bars do too and are upserted on
	// refetch, so no DROP on startup.
	query := `
		CREATE TABLE IF NOT EXISTS daily_bars (
			symbol TEXT,
			timestamp INTEGER,
			open REAL,
			high REAL,
			low REAL,
			close REAL,
			volume REAL,
			fetched_at INTEGER,
			PRIMARY KEY (symbol, timestamp)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create daily_bars: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS report_runs (
			id TEXT PRIMARY KEY,
			ticker TEXT,
			query TEXT,
			rows INTEGER,
			anomalies INTEGER,
			narrative TEXT,
			archive_size INTEGER,
			status TEXT,
			error TEXT,
			created_at TIMESTAMP
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create report_runs: %w", err)
	}

	if _, err := d.DB.Exec("CREATE INDEX IF NOT EXISTS idx_report_runs_created ON report_runs (created_at DESC);"); err != nil {
		return fmt.Errorf("failed to create report_runs index: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) SaveDailyBars(bars []models.MDailyBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_bars (symbol, timestamp, open, high, low, close, volume, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, timestamp) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.Exec(b.Symbol, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume, b.FetchedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) SaveReportRun(run models.MReportRun) error {
	_, err := d.DB.Exec(`
		INSERT INTO report_runs (id, ticker, query, rows, anomalies, narrative, archive_size, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Ticker, run.Query, run.Rows, run.Anomalies, run.Narrative, run.ArchiveSize, run.Status, run.Error, run.CreatedAt.UTC())
	return err
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) ListReportRuns(limit int) ([]models.MReportRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.DB.Query(`
		SELECT id, ticker, query, rows, anomalies, narrative, archive_size, status, error, created_at
		FROM report_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.MReportRun
	for rows.Next() {
		var r models.MReportRun
		if err := rows.Scan(&r.ID, &r.Ticker, &r.Query, &r.Rows, &r.Anomalies, &r.Narrative,
			&r.ArchiveSize, &r.Status, &r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) CleanupOldData() error {
	retentionDays := d.Config.DataSource.DataRetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()

	d.Logger.Info("Cleaning up data older than %d days (timestamp < %d)...", retentionDays, cutoff)

	if _, err := d.DB.Exec("DELETE FROM daily_bars WHERE timestamp < ?", cutoff); err != nil {
		d.Logger.Error("Cleanup daily_bars error: %v", err)
	}

	cutoffTime := time.Now().UTC().AddDate(0, 0, -retentionDays)
	if _, err := d.DB.Exec("DELETE FROM report_runs WHERE created_at < ?", cutoffTime); err != nil {
		d.Logger.Error("Cleanup report_runs error: %v", err)
	}

	d.Logger.Info("Cleanup completed")
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
