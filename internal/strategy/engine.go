package strategy

import (
	"errors"
	"fmt"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
)

// Evaluate runs one cycle over a batch of series. It returns an error only for malformed
// universes or params; data problems end up in Evaluation.Skipped.
// Evaluate keeps no state between calls and is safe for concurrent use.
func Evaluate(batch map[string]model.PriceSeries, u *model.Universe, p Params) (*model.Evaluation, error) {
	if u == nil {
		return nil, errors.New("evaluate: nil universe")
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	eval := &model.Evaluation{}
	records := make(map[string]model.IndicatorRecord)

	// Step a: per-instrument records
	for _, sym := range u.Symbols() {
		series, ok := batch[sym]
		if !ok {
			eval.Skipped = append(eval.Skipped, model.Skip{
				Symbol: sym, Stage: model.StageIndicator, Reason: model.SkipMissingInstrument,
			})
			continue
		}
		rec, skip, err := BuildRecord(sym, u.DisplayName(sym), series, p)
		if err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
		if skip != nil {
			eval.Skipped = append(eval.Skipped, *skip)
			continue
		}
		records[sym] = rec
		eval.Records = append(eval.Records, rec)
		if rec.AsOf.After(eval.AsOf) {
			eval.AsOf = rec.AsOf
		}
	}

	// Step b: relative strength against the benchmark
	strength, skips := relativeStrength(batch, records, u, p.Lookback)
	eval.Strength = strength
	eval.Skipped = append(eval.Skipped, skips...)

	// Step c: baskets and cohorts
	for _, b := range u.Baskets {
		eval.Baskets = append(eval.Baskets, SummarizeBasket(b.Name, basketRecords(b.Symbols, records), b.LeaderBy))
	}
	for _, c := range u.Cohorts {
		b, _ := u.Basket(c.Basket)
		sum := Cohort(c.Name, basketRecords(b.Symbols, records), PriceFloor(c.Floor))
		sum.Floor = c.Floor
		eval.Cohorts = append(eval.Cohorts, sum)
	}

	// Step d: scorecard and rotation
	if len(u.Scorecard) > 0 {
		card, skips := EvaluateScorecard(records, u.Scorecard)
		eval.Scorecard = &card
		eval.Skipped = append(eval.Skipped, skips...)
	}
	if u.Rotation != nil {
		advice, skips := Rotate(records, *u.Rotation)
		eval.Rotation = advice
		eval.Skipped = append(eval.Skipped, skips...)
	}

	return eval, nil
}

// relativeStrength compares every recorded instrument except the benchmark with the benchmark.
// Instruments without enough history are excluded, never defaulted.
func relativeStrength(batch map[string]model.PriceSeries, records map[string]model.IndicatorRecord, u *model.Universe, lookback int) ([]model.RelativeStrengthRecord, []model.Skip) {
	bench, ok := batch[u.Benchmark]
	_, valid := records[u.Benchmark]
	if !ok || !valid || bench.Len() < lookback+1 {
		reason := model.SkipInsufficientHistory
		switch {
		case !ok:
			reason = model.SkipMissingInstrument
		case bench.Len() >= lookback+1:
			reason = model.SkipInvalidPrice
		}
		return nil, []model.Skip{{
			Symbol: u.Benchmark, Stage: model.StageStrength, Reason: reason, Detail: "benchmark",
		}}
	}
	benchCloses := bench.Closes()

	var out []model.RelativeStrengthRecord
	var skips []model.Skip
	for _, sym := range u.Symbols() {
		if sym == u.Benchmark {
			continue
		}
		rec, ok := records[sym]
		if !ok {
			continue
		}
		rs, err := calculator.CalculateRelativeStrength(batch[sym].Closes(), benchCloses, lookback)
		if err != nil {
			reason := model.SkipInsufficientHistory
			if errors.Is(err, calculator.ErrDegenerate) {
				reason = model.SkipDivisionDegenerate
			}
			skips = append(skips, model.Skip{Symbol: sym, Stage: model.StageStrength, Reason: reason, Detail: err.Error()})
			continue
		}
		out = append(out, model.RelativeStrengthRecord{
			Symbol:          sym,
			DisplayName:     rec.DisplayName,
			TargetReturn:    rs.TargetReturn,
			BenchmarkReturn: rs.BenchmarkReturn,
			Ratio:           rs.Ratio,
			Outperforming:   rs.Outperforming(),
		})
	}
	return out, skips
}
