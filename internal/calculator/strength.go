package calculator

import "fmt"

// RelativeStrength is the outcome of comparing a target series with a benchmark.
type RelativeStrength struct {
	TargetReturn    float64
	BenchmarkReturn float64
	Ratio           float64
}

// Outperforming reports ratio > 1.
func (r RelativeStrength) Outperforming() bool { return r.Ratio > 1 }

// CalculateRelativeStrength computes (1+target)/(1+benchmark) over lookback periods.
// Any error means the target has no relative-strength reading; callers must not default it.
func CalculateRelativeStrength(target, benchmark []float64, lookback int) (RelativeStrength, error) {
	tr, err := CalculateReturn(target, lookback)
	if err != nil {
		return RelativeStrength{}, fmt.Errorf("target return: %w", err)
	}
	br, err := CalculateReturn(benchmark, lookback)
	if err != nil {
		return RelativeStrength{}, fmt.Errorf("benchmark return: %w", err)
	}
	if 1+br == 0 {
		return RelativeStrength{}, fmt.Errorf("benchmark return: %w", ErrDegenerate)
	}
	return RelativeStrength{
		TargetReturn:    tr,
		BenchmarkReturn: br,
		Ratio:           (1 + tr) / (1 + br),
	}, nil
}
