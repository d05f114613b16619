package server

import "strings"

// -----------------------------------------------------------------------------
// Ticker resolution from free-text queries ("Apple last 30 days" -> AAPL).
// -----------------------------------------------------------------------------

const defaultTicker = "TSLA"

// keywordTickers maps lowercase keywords to Yahoo symbols. First match wins,
// checked in a fixed order.
var keywordOrder = []string{"apple", "bitcoin", "ethereum", "spy"}

var keywordTickers = map[string]string{
	"apple":    "AAPL",
	"bitcoin":  "BTC-USD",
	"ethereum": "ETH-USD",
	"spy":      "SPY",
}

// -----------------------------------------------------------------------------

// ResolveTicker extracts a ticker symbol from a free-text query. An explicit
// `$SYM` token takes precedence over the keyword table; anything else falls
// back to the default ticker.
func ResolveTicker(query string) string {
	// Explicit $SYMBOL passthrough
	for _, field := range strings.Fields(query) {
		if strings.HasPrefix(field, "$") && len(field) > 1 {
			sym := strings.ToUpper(strings.TrimPrefix(field, "$"))
			sym = strings.Trim(sym, ".,;:!?")
			if sym != "" {
				return sym
			}
		}
	}

	lower := strings.ToLower(query)
	for _, kw := range keywordOrder {
		if strings.Contains(lower, kw) {
			return keywordTickers[kw]
		}
	}

	return defaultTicker
}
