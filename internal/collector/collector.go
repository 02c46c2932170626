package collector

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"MarketPulse/internal/model"
)

// Collector fetches one batch of series per cycle.
type Collector struct {
	Fetcher Fetcher
	Days    int

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewCollector creates a Collector limited to rps requests per second. rps <= 0 disables the limit.
func NewCollector(fetcher Fetcher, days int, rps float64, burst int, log zerolog.Logger) *Collector {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	st := gobreaker.Settings{
		Name:     fetcher.Name(),
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoData)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("source", name).Str("from", from.String()).Str("to", to.String()).Msg("fetch breaker state changed")
		},
	}
	return &Collector{
		Fetcher: fetcher,
		Days:    days,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(st),
		log:     log,
	}
}

// Collect fetches every symbol and returns the series that arrived.
// Failed symbols are left out of the map; the engine reports them as missing.
// The only error is context cancellation.
func (c *Collector) Collect(ctx context.Context, symbols []string) (map[string]model.PriceSeries, error) {
	out := make(map[string]model.PriceSeries, len(symbols))
	for _, sym := range symbols {
		if err := c.limiter.Wait(ctx); err != nil {
			return out, err
		}
		v, err := c.breaker.Execute(func() (interface{}, error) {
			return c.Fetcher.FetchSeries(ctx, sym, c.Days)
		})
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			c.log.Warn().Err(err).Str("symbol", sym).Msg("fetch failed, symbol omitted")
			continue
		}
		series := v.(model.PriceSeries)
		if series.Symbol == "" {
			series.Symbol = sym
		}
		out[sym] = series
	}
	c.log.Debug().Int("requested", len(symbols)).Int("fetched", len(out)).Msg("batch collected")
	return out, nil
}
