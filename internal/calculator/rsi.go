package calculator

// CalculateRSI computes RSI from the simple mean of gains and losses over the last period changes.
// With fewer changes available the window shrinks; fewer than two prices yields 50.
// No losses in the window yields 100, a flat window included.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(prices) < 2 {
		return 50.0, nil
	}

	window := trailing(prices, period+1)
	var sumGain, sumLoss float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			sumGain += change
		} else {
			sumLoss -= change
		}
	}
	n := float64(len(window) - 1)
	avgGain := sumGain / n
	avgLoss := sumLoss / n

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
