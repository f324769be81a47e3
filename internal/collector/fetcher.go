package collector

import (
	"context"

	"github.com/machenderson/brilionxc/internal/model"
)

// Fetcher defines the interface for fetching market data.
// period is the lookback range (e.g. "2d") and interval the bar
// duration (e.g. "1m"), both in the data source's notation.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error)
	Name() string
}
