package calculator

import "errors"

// CalculateReturn returns the fractional change from lookback periods ago to the latest price.
// A non-positive base price is degenerate.
func CalculateReturn(prices []float64, lookback int) (float64, error) {
	if lookback <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(prices) < lookback+1 {
		return 0, ErrInsufficientHistory
	}
	latest := prices[len(prices)-1]
	past := prices[len(prices)-1-lookback]
	if past <= 0 {
		return 0, ErrDegenerate
	}
	return (latest - past) / past, nil
}

// CalculateMomentum returns the percent change over lookback periods.
// Short history or a non-positive base price yields 0 rather than an error.
func CalculateMomentum(prices []float64, lookback int) (float64, error) {
	r, err := CalculateReturn(prices, lookback)
	if errors.Is(err, ErrInsufficientHistory) || errors.Is(err, ErrDegenerate) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return r * 100, nil
}
