package interfaces

import "market-reporter/src/models"

// -----------------------------------------------------------------------------
// IDatabase defines the contract for storage operations.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveDailyBars inserts a batch of fetched daily bars (upsert on symbol+day).
	SaveDailyBars(bars []models.MDailyBar) error

	// -----------------------------------------------------------------------------

	// SaveReportRun records the outcome of one generation call.
	SaveReportRun(run models.MReportRun) error

	// -----------------------------------------------------------------------------

	// ListReportRuns returns the most recent runs, newest first.
	ListReportRuns(limit int) ([]models.MReportRun, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes data older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
