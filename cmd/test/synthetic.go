package main

import (
	"math"
	"time"

	"market-reporter/src/models"
)

// syntheticBars produces a deterministic daily series: a gentle sine drift
// around a base price with one outsized move near the end so the anomaly
// flagging has something to find.
func syntheticBars(symbol string, days int) []models.MDailyBar {
	if days < 2 {
		days = 2
	}

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	bars := make([]models.MDailyBar, 0, days)
	price := 100.0
	for i := 0; i < days; i++ {
		move := math.Sin(float64(i)/3.0) * 0.8
		if i == days-3 {
			// One 6% spike
			move = 6.0
		}
		price *= 1 + move/100

		open := price * 0.995
		high := price * 1.01
		low := price * 0.99

		bars = append(bars, models.MDailyBar{
			Symbol:    symbol,
			Timestamp: start.AddDate(0, 0, i).Unix(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    float64(1_000_000 + i*10_000),
			FetchedAt: now.Unix(),
			CreatedAt: now,
		})
	}

	return bars
}
