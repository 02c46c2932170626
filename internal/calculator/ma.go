package calculator

import (
	"errors"

	"github.com/montanaflynn/stats"
)

var (
	ErrInvalidPeriod       = errors.New("period must be positive")
	ErrInsufficientHistory = errors.New("not enough data")
	ErrDegenerate          = errors.New("degenerate denominator")
)

// trailing returns the last period values, or all of them when fewer exist.
func trailing(prices []float64, period int) []float64 {
	if len(prices) <= period {
		return prices
	}
	return prices[len(prices)-period:]
}

// CalculateSMA computes the simple moving average over the last period prices.
// With fewer than period prices the mean covers whatever is available.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(prices) == 0 {
		return 0, ErrInsufficientHistory
	}
	return stats.Mean(trailing(prices, period))
}

// CalculateBias returns the percent deviation of the latest price from its trailing mean.
// A zero mean yields 0.
func CalculateBias(prices []float64, period int) (float64, error) {
	ma, err := CalculateSMA(prices, period)
	if err != nil {
		return 0, err
	}
	if ma == 0 {
		return 0, nil
	}
	latest := prices[len(prices)-1]
	return (latest - ma) / ma * 100, nil
}
