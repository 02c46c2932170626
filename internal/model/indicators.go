package model

import "time"

// TrendStatus classifies the latest price against its trailing mean.
type TrendStatus string

const (
	TrendStrong TrendStatus = "STRONG"
	TrendWeak   TrendStatus = "WEAK"
)

// RSIStatus classifies an RSI reading.
type RSIStatus string

const (
	RSIOverheated RSIStatus = "OVERHEATED"
	RSIOversold   RSIStatus = "OVERSOLD"
	RSINeutral    RSIStatus = "NEUTRAL"
)

// IndicatorRecord is the per-instrument output of one evaluation cycle.
// Records are values; a new set is built every cycle.
type IndicatorRecord struct {
	Symbol          string      `json:"symbol"`
	DisplayName     string      `json:"display_name"`
	LatestPrice     float64     `json:"latest_price"`
	TrendBias       float64     `json:"trend_bias"` // percent vs trailing mean
	TrendStatus     TrendStatus `json:"trend_status"`
	RSIValue        float64     `json:"rsi"`
	RSIStatus       RSIStatus   `json:"rsi_status"`
	QuarterMomentum float64     `json:"quarter_momentum"` // percent
	CompositeScore  int         `json:"composite_score"`
	AsOf            time.Time   `json:"as_of"`
}

// RelativeStrengthRecord compares an instrument's return with the benchmark's over the same lookback.
type RelativeStrengthRecord struct {
	Symbol          string  `json:"symbol"`
	DisplayName     string  `json:"display_name"`
	TargetReturn    float64 `json:"target_return"`
	BenchmarkReturn float64 `json:"benchmark_return"`
	Ratio           float64 `json:"ratio"`
	Outperforming   bool    `json:"outperforming"`
}
