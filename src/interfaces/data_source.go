package interfaces

import (
	"context"

	"market-reporter/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource interface for fetching daily bars from external sources.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchDailyHistory retrieves up to `days` daily bars for one symbol,
	// oldest first. The context bounds the remote call.
	FetchDailyHistory(ctx context.Context, symbol string, days int) ([]models.MDailyBar, error)
}
