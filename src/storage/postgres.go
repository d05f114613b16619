package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"market-reporter/src/logger"
	"market-reporter/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	// Schema per deployed binary so several instances can share one cluster
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresDB{
		Config: cfg,
		Schema: name,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."daily_bars" (
			symbol TEXT,
			timestamp BIGINT,
			open DOUBLE PRECISION,
			high DOUBLE PRECISION,
			low DOUBLE PRECISION,
			close DOUBLE PRECISION,
			volume DOUBLE PRECISION,
			fetched_at BIGINT,
			PRIMARY KEY (symbol, timestamp)
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create daily_bars: %w", err)
	}

	query = fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."report_runs" (
			id TEXT PRIMARY KEY,
			ticker TEXT,
			query TEXT,
			rows INTEGER,
			anomalies INTEGER,
			narrative TEXT,
			archive_size INTEGER,
			status TEXT,
			error TEXT,
			created_at TIMESTAMPTZ
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create report_runs: %w", err)
	}

	query = fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_report_runs_created ON "%s"."report_runs" (created_at DESC);`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create report_runs index: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveDailyBars(bars []models.MDailyBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO "%s"."daily_bars" (symbol, timestamp, open, high, low, close, volume, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, timestamp) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume,
			fetched_at = excluded.fetched_at
	`, d.Schema))
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

func (d *PostgresDB) SaveReportRun(run models.MReportRun) error {
	_, err := d.DB.Exec(fmt.Sprintf(`
		INSERT INTO "%s"."report_runs" (id, ticker, query, rows, anomalies, narrative, archive_size, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, d.Schema), run.ID, run.Ticker, run.Query, run.Rows, run.Anomalies, run.Narrative, run.ArchiveSize, run.Status, run.Error, run.CreatedAt.UTC())
	return err
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) ListReportRuns(limit int) ([]models.MReportRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.DB.Query(fmt.Sprintf(`
		SELECT id, ticker, query, rows, anomalies, narrative, archive_size, status, error, created_at
		FROM "%s"."report_runs"
		ORDER BY created_at DESC
		LIMIT $1
	`, d.Schema), limit)
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

func (d *PostgresDB) CleanupOldData() error {
	retentionDays := d.Config.DataSource.DataRetentionDays
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()

	d.Logger.Info("Cleaning up data older than %d days (timestamp < %d)...", retentionDays, cutoff)

	query := fmt.Sprintf(`DELETE FROM "%s"."daily_bars" WHERE timestamp < $1`, d.Schema)
	if _, err := d.DB.Exec(query, cutoff); err != nil {
		d.Logger.Error("Cleanup daily_bars error: %v", err)
	}

	cutoffTime := time.Now().UTC().AddDate(0, 0, -retentionDays)
	query = fmt.Sprintf(`DELETE FROM "%s"."report_runs" WHERE created_at < $1`, d.Schema)
	if _, err := d.DB.Exec(query, cutoffTime); err != nil {
		d.Logger.Error("Cleanup report_runs error: %v", err)
	}

	d.Logger.Info("Cleanup completed")
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
