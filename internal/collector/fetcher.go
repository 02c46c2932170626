package collector

import (
	"context"
	"errors"

	"MarketPulse/internal/model"
)

// ErrNoData marks failures specific to one symbol (unknown or delisted ticker, empty history).
// They do not count against the upstream circuit breaker.
var ErrNoData = errors.New("no data for symbol")

// Fetcher defines the interface for fetching daily close history.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol string, days int) (model.PriceSeries, error)
	Name() string
}
