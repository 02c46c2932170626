package model

import "time"

// PricePoint is a single dated close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries holds the close history of one instrument, oldest first.
type PriceSeries struct {
	Symbol    string       `json:"symbol"`
	Points    []PricePoint `json:"points"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// Closes returns a fresh slice with the close column.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Latest returns the most recent point. ok is false for an empty series.
func (s PriceSeries) Latest() (p PricePoint, ok bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
