package analysis

import (
	"sort"
	"time"

	"market-reporter/src/analysis/core"
	"market-reporter/src/models"
)

// ResampleThresholdDays is the request span above which daily bars are
// downsampled to weekly buckets, keeping the embedded table bounded.
const ResampleThresholdDays = 90

const weekSeconds = 7 * 24 * 3600

// -----------------------------------------------------------------------------

// ResampleWeekly merges daily bars into aligned 7-day buckets: open from the
// first bar, high/low across the bucket, close from the last bar, volume
// summed. Input order does not matter; output is oldest first.
func ResampleWeekly(bars []models.MDailyBar) []models.MDailyBar {
	if len(bars) == 0 {
		return nil
	}

	sorted := make([]models.MDailyBar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	// Group by aligned window start.
	buckets := make(map[int64][]models.MDailyBar)
	var starts []int64
	for _, bar := range sorted {
		wStart := bar.Timestamp - (bar.Timestamp % weekSeconds)
		if _, ok := buckets[wStart]; !ok {
			starts = append(starts, wStart)
		}
		buckets[wStart] = append(buckets[wStart], bar)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	out := make([]models.MDailyBar, 0, len(starts))
	for _, wStart := range starts {
		subset := buckets[wStart]

		prices := make([]float64, len(subset))
		volumes := make([]float64, len(subset))
		for i, bar := range subset {
			prices[i] = bar.Close
			volumes[i] = bar.Volume
		}
		ohlcv := core.ComputeOHLCV(prices, volumes)

		merged := models.MDailyBar{
			Symbol:    subset[0].Symbol,
			Timestamp: wStart,
			Open:      subset[0].Open,
			High:      ohlcv["high"],
			Low:       ohlcv["low"],
			Close:     ohlcv["close"],
			Volume:    ohlcv["volume"],
			FetchedAt: subset[len(subset)-1].FetchedAt,
			CreatedAt: time.Now().UTC(),
		}
		// Daily extremes beat close-derived ones when present.
		for _, bar := range subset {
			if bar.High > merged.High {
				merged.High = bar.High
			}
			if bar.Low < merged.Low {
				merged.Low = bar.Low
			}
		}

		out = append(out, merged)
	}

	return out
}
