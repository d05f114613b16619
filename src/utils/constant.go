package utils

// Constants for data retention and cache sizing.
// One point per trading day; a year of daily bars is at most ~260 rows, so the
// cap leaves headroom for continuous (crypto) venues which print every day.
const (
	DefaultRetentionDays = 365
	MaxHistoryDays       = 365
)

// -----------------------------------------------------------------------------

// CalculateMaxDataPoints returns the buffer capacity for a retention window
// measured in calendar days, one daily bar per day.
func CalculateMaxDataPoints(days int) int {
	if days <= 0 {
		days = DefaultRetentionDays
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}
	return days
}
