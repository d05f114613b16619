package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"market-reporter/src/analysis/core"
	"market-reporter/src/logger"
	"market-reporter/src/models"
)

// volatilityWindow is the trailing span (in rows) of the rolling volatility.
const volatilityWindow = 5

// -----------------------------------------------------------------------------
// ReportBuilder derives the report table from fetched daily bars: percent
// change of close, rolling volatility of that change, and an anomaly flag for
// outsized moves.
// -----------------------------------------------------------------------------

type ReportBuilder struct {
	Config *models.MConfig
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewReportBuilder(cfg *models.MConfig, log *logger.Logger) *ReportBuilder {
	return &ReportBuilder{Config: cfg, Logger: log}
}

// -----------------------------------------------------------------------------

// Summary aggregates the derived series for the narrative and run record.
type Summary struct {
	Ticker    string
	Rows      int
	Anomalies int
	MaxMove   float64 // largest positive ChangePerc, in percent
	Narrative string
}

// -----------------------------------------------------------------------------

// BuildRows converts daily bars into report rows. The first bar has no
// previous close and is dropped; rows inside the volatility warm-up window
// keep a NaN Volatility, rendered downstream as an explicit blank.
func (b *ReportBuilder) BuildRows(ticker string, bars []models.MDailyBar) ([]models.MReportRow, Summary, error) {
	if len(bars) == 0 {
		return nil, Summary{}, fmt.Errorf("no data for %s", ticker)
	}

	sorted := make([]models.MDailyBar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	// 1. Percent change of close, NaN for the leading bar.
	changes := make([]float64, len(sorted))
	changes[0] = math.NaN()
	for i := 1; i < len(sorted); i++ {
		changes[i] = core.CalculateChangePercent(sorted[i].Close, sorted[i-1].Close) * 100
	}

	// 2. Rolling volatility over the change series.
	volatility := core.CalculateRollingStd(changes, volatilityWindow)

	// 3. Anomaly flag: a move beyond two standard deviations of the series.
	std := core.CalculateSampleStd(changes)

	rows := make([]models.MReportRow, 0, len(sorted)-1)
	anomalies := 0
	maxMove := math.Inf(-1)

	for i, bar := range sorted {
		if math.IsNaN(changes[i]) {
			continue
		}

		anomaly := false
		if !math.IsNaN(std) && std > 0 {
			anomaly = math.Abs(core.CalculateZScore(changes[i], 0, std)) > 2
		}
		if anomaly {
			anomalies++
		}
		if changes[i] > maxMove {
			maxMove = changes[i]
		}

		rows = append(rows, models.MReportRow{
			Date:       time.Unix(bar.Timestamp, 0).UTC(),
			Open:       bar.Open,
			High:       bar.High,
			Low:        bar.Low,
			Close:      bar.Close,
			Volume:     int64(bar.Volume),
			ChangePerc: changes[i],
			Volatility: volatility[i],
			IsAnomaly:  anomaly,
			Ticker:     ticker,
		})
	}

	if len(rows) == 0 {
		return nil, Summary{}, fmt.Errorf("not enough data for %s: need at least two bars", ticker)
	}
	if math.IsInf(maxMove, -1) {
		maxMove = 0
	}

	summary := Summary{
		Ticker:    ticker,
		Rows:      len(rows),
		Anomalies: anomalies,
		MaxMove:   maxMove,
		Narrative: fmt.Sprintf("%s: %d anomalies. Max Move: %.2f%%", ticker, anomalies, maxMove),
	}

	b.Logger.Info("Derived %d report rows for %s (%d anomalies)", len(rows), ticker, anomalies)
	return rows, summary, nil
}
