package strategy

import (
	"fmt"
	"math"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

// ClassifyTrend is STRONG only for strictly positive bias.
func ClassifyTrend(bias float64) model.TrendStatus {
	if bias > 0 {
		return model.TrendStrong
	}
	return model.TrendWeak
}

// ClassifyRSI maps an RSI reading onto the configured bands.
func ClassifyRSI(rsi float64, p Params) model.RSIStatus {
	switch {
	case rsi > p.Overbought:
		return model.RSIOverheated
	case rsi < p.Oversold:
		return model.RSIOversold
	default:
		return model.RSINeutral
	}
}

// firstInvalid finds the first close that is not a finite positive number.
func firstInvalid(closes []float64) (int, bool) {
	for i, c := range closes {
		if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
			return i, true
		}
	}
	return 0, false
}

// BuildRecord computes the indicator record of one instrument.
// A non-nil skip means no record was produced; err is reserved for invalid params.
func BuildRecord(symbol, name string, series model.PriceSeries, p Params) (model.IndicatorRecord, *model.Skip, error) {
	latest, ok := series.Latest()
	if !ok {
		return model.IndicatorRecord{}, &model.Skip{
			Symbol: symbol, Stage: model.StageIndicator,
			Reason: model.SkipInsufficientHistory, Detail: "empty series",
		}, nil
	}

	closes := series.Closes()
	if i, bad := firstInvalid(closes); bad {
		return model.IndicatorRecord{}, &model.Skip{
			Symbol: symbol, Stage: model.StageIndicator,
			Reason: model.SkipInvalidPrice, Detail: fmt.Sprintf("close[%d] = %v", i, closes[i]),
		}, nil
	}

	bias, err := calculator.CalculateBias(closes, p.MAWindow)
	if err != nil {
		return model.IndicatorRecord{}, nil, fmt.Errorf("%s bias: %w", symbol, err)
	}
	rsi, err := calculator.CalculateRSI(closes, p.RSIWindow)
	if err != nil {
		return model.IndicatorRecord{}, nil, fmt.Errorf("%s rsi: %w", symbol, err)
	}
	momentum, err := calculator.CalculateMomentum(closes, p.Lookback)
	if err != nil {
		return model.IndicatorRecord{}, nil, fmt.Errorf("%s momentum: %w", symbol, err)
	}

	rec := model.IndicatorRecord{
		Symbol:          symbol,
		DisplayName:     name,
		LatestPrice:     latest.Close,
		TrendBias:       bias,
		TrendStatus:     ClassifyTrend(bias),
		RSIValue:        rsi,
		RSIStatus:       ClassifyRSI(rsi, p),
		QuarterMomentum: momentum,
		AsOf:            latest.Date,
	}
	rec.CompositeScore = CompositeScore(rec)
	return rec, nil, nil
}
