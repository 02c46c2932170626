package strategy

import "MarketPulse/internal/model"

// Regimes maps a scorecard score to its reading, highest first.
var Regimes = []struct {
	MinScore int
	Regime   model.Regime
}{
	{4, model.RegimeFullThrottle},
	{3, model.RegimeLeanBullish},
	{2, model.RegimeMixed},
}

// DefaultRegime covers scores below every entry in Regimes.
var DefaultRegime = model.RegimeDefensive

func mapRegime(score int) model.Regime {
	for _, r := range Regimes {
		if score >= r.MinScore {
			return r.Regime
		}
	}
	return DefaultRegime
}

// factorPasses applies the factor's polarity to a bias. Zero bias never passes.
func factorPasses(bias float64, polarity model.Polarity) bool {
	if polarity == model.PolarityInverted {
		return bias < 0
	}
	return bias > 0
}

// EvaluateScorecard turns each factor's bias into a pass bit and counts the passes.
// A factor whose instrument has no record is reported unavailable and does not pass.
func EvaluateScorecard(records map[string]model.IndicatorRecord, factors []model.ScoreFactor) (model.Scorecard, []model.Skip) {
	var skips []model.Skip
	card := model.Scorecard{Factors: make([]model.FactorResult, 0, len(factors))}
	for _, f := range factors {
		res := model.FactorResult{Name: f.Name, Symbol: f.Symbol, Polarity: f.Polarity}
		if rec, ok := records[f.Symbol]; ok {
			res.Available = true
			res.Bias = rec.TrendBias
			res.Pass = factorPasses(rec.TrendBias, f.Polarity)
		} else {
			skips = append(skips, model.Skip{
				Symbol: f.Symbol, Stage: model.StageScorecard,
				Reason: model.SkipMissingInstrument, Detail: f.Name,
			})
		}
		if res.Pass {
			card.Score++
		}
		card.Factors = append(card.Factors, res)
	}
	card.Regime = mapRegime(card.Score)
	return card, skips
}
