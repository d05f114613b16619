package yahoo

import (
	"testing"
	"time"

	"market-reporter/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource() *YahooFinanceSource {
	cfg := &models.MConfig{LogLevel: "ERROR"}
	return NewYahooFinanceSource(cfg, models.MSourceConfig{Name: "yahoo"}, nil)
}

// chartJSON builds a minimal chart response body. Timestamps fall on weekdays
// so the business-day filter keeps them.
func chartJSON(timestamps string, open, high, low, closeVals, volume string) []byte {
	return []byte(`{
		"chart": {
			"result": [{
				"meta": {"symbol": "TSLA", "currency": "USD"},
				"timestamp": [` + timestamps + `],
				"indicators": {
					"quote": [{
						"open": [` + open + `],
						"high": [` + high + `],
						"low": [` + low + `],
						"close": [` + closeVals + `],
						"volume": [` + volume + `]
					}]
				}
			}],
			"error": null
		}
	}`)
}

// Tuesday/Wednesday 2024-01-09 and 2024-01-10, midnight UTC.
const (
	tsTue = "1704758400"
	tsWed = "1704844800"
)

// -----------------------------------------------------------------------------

func TestParseChartResponse_Valid(t *testing.T) {
	s := testSource()
	body := chartJSON(tsTue+","+tsWed,
		"100.0,101.0", "102.0,103.0", "99.0,100.0", "101.5,102.5", "1000,2000")

	bars, err := s.parseChartResponse("TSLA", body)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "TSLA", bars[0].Symbol)
	assert.Equal(t, 101.5, bars[0].Close)
	assert.Equal(t, 2000.0, bars[1].Volume)
	assert.Less(t, bars[0].Timestamp, bars[1].Timestamp)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC).Unix(), bars[0].Timestamp)
}

func TestParseChartResponse_NullPoints(t *testing.T) {
	s := testSource()
	// Second point has null OHLCV entries and must be skipped.
	body := chartJSON(tsTue+","+tsWed,
		"100.0,null", "102.0,null", "99.0,null", "101.5,null", "1000,null")

	bars, err := s.parseChartResponse("TSLA", body)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 101.5, bars[0].Close)
}

func TestParseChartResponse_MisalignedArrays(t *testing.T) {
	s := testSource()
	body := chartJSON(tsTue+","+tsWed,
		"100.0", "102.0,103.0", "99.0,100.0", "101.5,102.5", "1000,2000")

	_, err := s.parseChartResponse("TSLA", body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alignment")
}

func TestParseChartResponse_APIError(t *testing.T) {
	s := testSource()
	body := []byte(`{"chart": {"result": [], "error": {"code": "Not Found", "description": "No data found"}}}`)

	_, err := s.parseChartResponse("UNKNOWN", body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestParseChartResponse_InvalidPrices(t *testing.T) {
	s := testSource()
	// Zero close and negative volume are both rejected.
	body := chartJSON(tsTue+","+tsWed,
		"100.0,101.0", "102.0,103.0", "99.0,100.0", "0,102.5", "1000,-5")

	_, err := s.parseChartResponse("TSLA", body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid data points")
}

func TestName(t *testing.T) {
	assert.Equal(t, "yahoo", testSource().Name())
}
