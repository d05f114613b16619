package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTicker(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"Apple last 30 days", "AAPL"},
		{"show me BITCOIN please", "BTC-USD"},
		{"ethereum weekly", "ETH-USD"},
		{"spy overview", "SPY"},
		{"Tesla last 30 days", "TSLA"},
		{"something unrelated", "TSLA"},
		{"", "TSLA"},
		{"chart for $NVDA today", "NVDA"},
		{"$msft, please", "MSFT"},
		{"apple vs $GOOG", "GOOG"}, // explicit symbol wins over keywords
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ResolveTicker(tc.query), "query %q", tc.query)
	}
}

func TestArchiveFilename(t *testing.T) {
	assert.Equal(t, "apple_last_30_days_dashboard.pbit", archiveFilename("Apple last 30 days"))
	assert.Equal(t, "report_dashboard.pbit", archiveFilename("!!!"))
}
