package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(price float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func rising(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestCalculateSMA(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		want   float64
	}{
		{"full window", []float64{1, 2, 3, 4, 5}, 5, 3},
		{"trailing window only", []float64{100, 1, 2, 3}, 3, 2},
		{"short history uses what exists", []float64{2, 4}, 20, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSMA(tt.prices, tt.period)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := CalculateSMA(nil, 20)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	_, err = CalculateSMA([]float64{1}, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestCalculateBias_FlatThenJump(t *testing.T) {
	prices := append(flat(100, 19), 110)
	ma, err := CalculateSMA(prices, 20)
	require.NoError(t, err)
	assert.InDelta(t, 100.5, ma, 1e-9)

	bias, err := CalculateBias(prices, 20)
	require.NoError(t, err)
	assert.InDelta(t, 9.4527, bias, 1e-3)
}

func TestCalculateBias_ConstantIsZero(t *testing.T) {
	for _, n := range []int{20, 21, 60, 250} {
		bias, err := CalculateBias(flat(42.5, n), 20)
		require.NoError(t, err)
		assert.Zero(t, bias, "n=%d", n)
	}
}

func TestCalculateBias_ZeroMean(t *testing.T) {
	bias, err := CalculateBias(flat(0, 25), 20)
	require.NoError(t, err)
	assert.Zero(t, bias)
}

func TestCalculateRSI_NoLossesIs100(t *testing.T) {
	rsi, err := CalculateRSI(rising(10, 0.5, 40), 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)

	// only the last 14 changes count: an old loss falls out of the window
	prices := append([]float64{50, 10}, rising(10, 1, 20)...)
	rsi, err = CalculateRSI(prices, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)

	rsi, err = CalculateRSI(flat(7, 30), 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)
}

func TestCalculateRSI_KnownValue(t *testing.T) {
	// 7 gains of 2 and 7 losses of 1 → RS = 2 → RSI = 66.67
	prices := []float64{100}
	for i := 0; i < 7; i++ {
		p := prices[len(prices)-1]
		prices = append(prices, p+2, p+1)
	}
	require.Len(t, prices, 15)
	rsi, err := CalculateRSI(prices, 14)
	require.NoError(t, err)
	assert.InDelta(t, 200.0/3.0, rsi, 1e-9)
}

func TestCalculateRSI_AllLossesIsZero(t *testing.T) {
	rsi, err := CalculateRSI(rising(100, -1, 30), 14)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rsi)
}

func TestCalculateRSI_Bounded(t *testing.T) {
	prices := make([]float64, 200)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i%7)
	}
	for n := 0; n <= len(prices); n++ {
		rsi, err := CalculateRSI(prices[:n], 14)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rsi, 0.0)
		assert.LessOrEqual(t, rsi, 100.0)
	}
}

func TestCalculateRSI_ShortHistory(t *testing.T) {
	rsi, err := CalculateRSI([]float64{10}, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi)

	rsi, err = CalculateRSI([]float64{10, 9, 10}, 14)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, rsi, 1e-9)

	_, err = CalculateRSI([]float64{1, 2}, -1)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestCalculateMomentum(t *testing.T) {
	prices := rising(100, 1, 61)
	m, err := CalculateMomentum(prices, 60)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, m, 1e-9)

	m, err = CalculateMomentum(rising(100, 1, 60), 60)
	require.NoError(t, err)
	assert.Zero(t, m, "60 observations are one short of a 60-period change")

	m, err = CalculateMomentum(append([]float64{0}, rising(1, 1, 60)...), 60)
	require.NoError(t, err)
	assert.Zero(t, m, "zero base price")
}

func TestCalculateMomentum_IncreasingSeriesIsPositive(t *testing.T) {
	for _, n := range []int{61, 80, 250} {
		prices := rising(5, 0.25, n)
		m, err := CalculateMomentum(prices, 60)
		require.NoError(t, err)
		assert.Greater(t, m, 0.0)
		bias, err := CalculateBias(prices, 20)
		require.NoError(t, err)
		assert.Greater(t, bias, 0.0)
	}
}

func TestCalculateReturn_Errors(t *testing.T) {
	_, err := CalculateReturn(flat(1, 10), 60)
	assert.True(t, errors.Is(err, ErrInsufficientHistory))
	_, err = CalculateReturn(append([]float64{0}, flat(1, 60)...), 60)
	assert.True(t, errors.Is(err, ErrDegenerate))
	_, err = CalculateReturn(append([]float64{-50}, flat(1, 60)...), 60)
	assert.True(t, errors.Is(err, ErrDegenerate), "negative base")
	_, err = CalculateReturn(flat(1, 10), 0)
	assert.True(t, errors.Is(err, ErrInvalidPeriod))

	m, err := CalculateMomentum(append([]float64{-50}, flat(1, 60)...), 60)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m)
}

func withReturn(ret float64) []float64 {
	prices := flat(100, 61)
	prices[60] = 100 * (1 + ret)
	return prices
}

func TestCalculateRelativeStrength(t *testing.T) {
	rs, err := CalculateRelativeStrength(withReturn(0.10), withReturn(0.05), 60)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, rs.TargetReturn, 1e-9)
	assert.InDelta(t, 0.05, rs.BenchmarkReturn, 1e-9)
	assert.InDelta(t, 1.0476, rs.Ratio, 1e-4)
	assert.True(t, rs.Outperforming())
}

func TestCalculateRelativeStrength_EqualReturnsIsOne(t *testing.T) {
	rs, err := CalculateRelativeStrength(withReturn(0.07), withReturn(0.07), 60)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rs.Ratio)
	assert.False(t, rs.Outperforming())
}

func TestCalculateRelativeStrength_Excluded(t *testing.T) {
	_, err := CalculateRelativeStrength(flat(100, 30), withReturn(0.05), 60)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = CalculateRelativeStrength(withReturn(0.05), flat(100, 60), 60)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = CalculateRelativeStrength(withReturn(0.05), withReturn(-1), 60)
	assert.ErrorIs(t, err, ErrDegenerate)
}
