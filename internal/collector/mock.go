package collector

import (
	"context"
	"time"

	"MarketPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Closes map[string][]float64 // per-symbol fixed closes
	Errors map[string]error     // per-symbol failures
	Price  float64              // base price of generated series
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, symbol string, days int) (model.PriceSeries, error) {
	m.Calls++
	if err, ok := m.Errors[symbol]; ok {
		return model.PriceSeries{}, err
	}
	closes, ok := m.Closes[symbol]
	if !ok {
		base := m.Price
		if base == 0 {
			base = 100
		}
		closes = generateMockCloses(base, days)
	}
	return seriesFromCloses(symbol, closes, time.Now().UTC().Truncate(24*time.Hour)), nil
}

func generateMockCloses(basePrice float64, count int) []float64 {
	closes := make([]float64, count)
	for i := 0; i < count; i++ {
		closes[i] = basePrice * (1 + float64(i-count/2)*0.001)
	}
	return closes
}

// seriesFromCloses dates the closes backwards one day each from last.
func seriesFromCloses(symbol string, closes []float64, last time.Time) model.PriceSeries {
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Date: last.AddDate(0, 0, i-len(closes)+1), Close: c}
	}
	return model.PriceSeries{Symbol: symbol, Points: points, FetchedAt: last}
}
