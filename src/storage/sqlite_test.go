package storage

import (
	"path/filepath"
	"testing"
	"time"

	"market-reporter/src/logger"
	"market-reporter/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *AsyncSQLiteDB {
	t.Helper()

	cfg := &models.MConfig{
		LogLevel: "ERROR",
		Storage: models.MStorageConfig{
			DBType: "sqlite",
			DBPath: filepath.Join(t.TempDir(), "test.db"),
		},
		DataSource: models.MDataSourceConfig{
			DataRetentionDays: 365,
		},
	}

	db, err := NewAsyncSQLiteDB(cfg, logger.NewLogger(cfg.LogLevel, "test"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db
}

func testBar(symbol string, ts int64, close float64) models.MDailyBar {
	return models.MDailyBar{
		Symbol:    symbol,
		Timestamp: ts,
		Open:      close - 1,
		High:      close + 1,
		Low:       close - 2,
		Close:     close,
		Volume:    1000,
		FetchedAt: ts,
		CreatedAt: time.Unix(ts, 0).UTC(),
	}
}

func testRun(id string, createdAt time.Time) models.MReportRun {
	return models.MReportRun{
		ID:        id,
		Ticker:    "TSLA",
		Query:     "tesla last 30 days",
		Rows:      29,
		Anomalies: 1,
		Narrative: "TSLA: 1 anomalies. Max Move: 4.20%",
		Status:    "success",
		CreatedAt: createdAt,
	}
}

// -----------------------------------------------------------------------------

func TestSaveDailyBars_Upsert(t *testing.T) {
	db := testDB(t)

	bars := []models.MDailyBar{
		testBar("TSLA", 1704758400, 240.0),
		testBar("TSLA", 1704844800, 245.0),
	}
	require.NoError(t, db.SaveDailyBars(bars))

	// Refetch overwrites the same (symbol, timestamp) rows instead of duplicating.
	bars[1].Close = 250.0
	require.NoError(t, db.SaveDailyBars(bars))

	var count int
	require.NoError(t, db.DB.QueryRow("SELECT COUNT(*) FROM daily_bars").Scan(&count))
	assert.Equal(t, 2, count)

	var close float64
	require.NoError(t, db.DB.QueryRow(
		"SELECT close FROM daily_bars WHERE symbol = ? AND timestamp = ?",
		"TSLA", int64(1704844800)).Scan(&close))
	assert.Equal(t, 250.0, close)
}

func TestSaveDailyBars_Empty(t *testing.T) {
	db := testDB(t)
	assert.NoError(t, db.SaveDailyBars(nil))
}

func TestListReportRuns_OrderAndLimit(t *testing.T) {
	db := testDB(t)

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveReportRun(testRun("run-1", base)))
	require.NoError(t, db.SaveReportRun(testRun("run-2", base.Add(time.Hour))))
	require.NoError(t, db.SaveReportRun(testRun("run-3", base.Add(2*time.Hour))))

	runs, err := db.ListReportRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-1", runs[2].ID)
	assert.Equal(t, "TSLA: 1 anomalies. Max Move: 4.20%", runs[0].Narrative)

	runs, err = db.ListReportRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
}

func TestCleanupOldData(t *testing.T) {
	db := testDB(t)
	db.Config.DataSource.DataRetentionDays = 30

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -60)

	require.NoError(t, db.SaveDailyBars([]models.MDailyBar{
		testBar("TSLA", old.Unix(), 200.0),
		testBar("TSLA", now.Unix(), 240.0),
	}))
	require.NoError(t, db.SaveReportRun(testRun("run-old", old)))
	require.NoError(t, db.SaveReportRun(testRun("run-new", now)))

	require.NoError(t, db.CleanupOldData())

	var barCount int
	require.NoError(t, db.DB.QueryRow("SELECT COUNT(*) FROM daily_bars").Scan(&barCount))
	assert.Equal(t, 1, barCount)

	runs, err := db.ListReportRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-new", runs[0].ID)
}
