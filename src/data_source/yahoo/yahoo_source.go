package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"market-reporter/src/interfaces"
	"market-reporter/src/logger"
	"market-reporter/src/models"
	"market-reporter/src/utils"
)

type YahooFinanceSource struct {
	Config       *models.MConfig
	SourceConfig models.MSourceConfig
	Network      interfaces.INetworkManager
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, netMgr interfaces.INetworkManager) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config:       cfg,
		SourceConfig: sourceCfg,
		Network:      netMgr,
		Logger:       logger.NewLogger(cfg.LogLevel, "YahooFinanceSource-"+sourceCfg.Name),
	}
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// FetchDailyHistory fetches up to `days` daily bars for one symbol, oldest
// first. Bars falling on non-business days for the symbol's exchange are
// dropped before the series is returned.
func (s *YahooFinanceSource) FetchDailyHistory(ctx context.Context, symbol string, days int) ([]models.MDailyBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := map[string]string{
		"interval":       "1d",
		"range":          fmt.Sprintf("%dd", days),
		"includePrePost": "false",
	}
	url := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s", symbol)

	respBytes, err := s.Network.Get(url, params)
	if err != nil {
		return nil, fmt.Errorf("network error for %s: %w", symbol, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.parseChartResponse(symbol, respBytes)
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				InstrumentType     string  `json:"instrumentType"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
				Timezone           string  `json:"timezone"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				DataGranularity    string  `json:"dataGranularity"`
				Range              string  `json:"range"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`   // Use pointers to handle null
					Low    []*float64 `json:"low"`    // Use pointers to handle null
					Open   []*float64 `json:"open"`   // Use pointers to handle null
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) ([]models.MDailyBar, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no result in response for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("no timestamps in response for %s", symbol)
	}

	indicators := result.Indicators.Quote
	if len(indicators) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}
	quote := indicators[0]

	// 1. Validation: every series must align with the timestamp axis
	if len(result.Timestamp) != len(quote.Close) ||
		len(result.Timestamp) != len(quote.Open) ||
		len(result.Timestamp) != len(quote.High) ||
		len(result.Timestamp) != len(quote.Low) ||
		len(result.Timestamp) != len(quote.Volume) {
		s.Logger.Warning("Data alignment error for %s: Mismatched array lengths", symbol)
		return nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	calendar := utils.GetCalendar(symbol)
	fetchedAt := time.Now().UTC()

	// 2. Build and clean the daily series
	var bars []models.MDailyBar
	for i := 0; i < len(result.Timestamp); i++ {
		ts := result.Timestamp[i]

		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil ||
			quote.Close[i] == nil || quote.Volume[i] == nil {
			s.Logger.Debug("Invalid OHLCV data received for %s at index %d", symbol, i)
			continue
		}

		closeVal := *quote.Close[i]
		volume := *quote.Volume[i]
		if closeVal <= 0 || volume < 0 {
			s.Logger.Debug("Skipping invalid point for %s: close=%f, volume=%f", symbol, closeVal, volume)
			continue
		}

		// Exchanges occasionally return half-session stubs on holidays.
		if !calendar.IsTradingDay(time.Unix(ts, 0)) {
			s.Logger.Debug("Dropping non-business-day bar for %s at %d", symbol, ts)
			continue
		}

		bars = append(bars, models.MDailyBar{
			Symbol:    symbol,
			Timestamp: ts,
			Open:      *quote.Open[i],
			High:      *quote.High[i],
			Low:       *quote.Low[i],
			Close:     closeVal,
			Volume:    volume,
			FetchedAt: fetchedAt.Unix(),
			CreatedAt: fetchedAt,
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no valid data points for %s", symbol)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp < bars[j].Timestamp
	})

	s.Logger.Info("Fetched %s: %d daily bars [%d -> %d]",
		symbol, len(bars), bars[0].Timestamp, bars[len(bars)-1].Timestamp)
	return bars, nil
}
