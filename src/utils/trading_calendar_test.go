package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCalendar_CryptoIsContinuous(t *testing.T) {
	cal := GetCalendar("BTC-USD")
	require.True(t, cal.Continuous)

	saturday := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	assert.True(t, cal.IsTradingDay(saturday))
	assert.True(t, cal.IsOpenOnMinute(saturday))
}

func TestGetCalendar_EquityWeekend(t *testing.T) {
	cal := GetCalendar("TSLA")
	require.False(t, cal.Continuous)

	saturday := time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC)
	assert.False(t, cal.IsTradingDay(saturday))

	// A plain mid-week day with no US holiday.
	tuesday := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)
	assert.True(t, cal.IsTradingDay(tuesday))
}

func TestCalculateMaxDataPoints(t *testing.T) {
	assert.Equal(t, 30, CalculateMaxDataPoints(30))
	assert.Equal(t, DefaultRetentionDays, CalculateMaxDataPoints(0))
	assert.Equal(t, MaxHistoryDays, CalculateMaxDataPoints(10000))
}
