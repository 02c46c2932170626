package strategy

import "fmt"

// Params carries the window lengths and thresholds used by the indicator layer.
type Params struct {
	MAWindow   int
	RSIWindow  int
	Lookback   int
	Overbought float64
	Oversold   float64
}

// DefaultParams returns MA 20, RSI 14, 60-period momentum/RS lookback and 70/30 RSI bands.
func DefaultParams() Params {
	return Params{
		MAWindow:   20,
		RSIWindow:  14,
		Lookback:   60,
		Overbought: 70,
		Oversold:   30,
	}
}

// Validate checks the windows are positive and the RSI bands are ordered.
func (p Params) Validate() error {
	if p.MAWindow <= 0 || p.RSIWindow <= 0 || p.Lookback <= 0 {
		return fmt.Errorf("params: windows must be positive (ma=%d rsi=%d lookback=%d)", p.MAWindow, p.RSIWindow, p.Lookback)
	}
	if p.Oversold < 0 || p.Overbought > 100 || p.Oversold >= p.Overbought {
		return fmt.Errorf("params: rsi bands must satisfy 0 <= oversold < overbought <= 100, got %.1f/%.1f", p.Oversold, p.Overbought)
	}
	return nil
}
