package strategy

import (
	"sort"

	"MarketPulse/internal/model"
)

// Composite gate weights. The score is their literal sum.
const (
	WeightTrend    = 40
	WeightMomentum = 30
	WeightRSI      = 30

	// FavorableScore is the lowest composite score read as a favorable regime.
	FavorableScore = 60

	rsiMidline = 50.0
)

// CompositeScore adds the weight of each gate the record passes:
// price above its trailing mean, positive quarter momentum, RSI above 50.
func CompositeScore(r model.IndicatorRecord) int {
	score := 0
	if r.TrendBias > 0 {
		score += WeightTrend
	}
	if r.QuarterMomentum > 0 {
		score += WeightMomentum
	}
	if r.RSIValue > rsiMidline {
		score += WeightRSI
	}
	return score
}

// IsFavorable reports score >= FavorableScore.
func IsFavorable(score int) bool { return score >= FavorableScore }

// RankByComposite returns a copy of records ordered by composite score, then bias, then symbol.
func RankByComposite(records []model.IndicatorRecord) []model.IndicatorRecord {
	ranked := make([]model.IndicatorRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.TrendBias != b.TrendBias {
			return a.TrendBias > b.TrendBias
		}
		return a.Symbol < b.Symbol
	})
	return ranked
}

// Rotate ranks the growth instrument with its defensive alternatives and picks one to favor:
// the growth instrument while its composite score is favorable, else the best defensive one.
func Rotate(records map[string]model.IndicatorRecord, def model.RotationDef) (*model.RotationAdvice, []model.Skip) {
	var skips []model.Skip
	var candidates []model.IndicatorRecord
	for _, sym := range append([]string{def.Growth}, def.Defensive...) {
		rec, ok := records[sym]
		if !ok {
			skips = append(skips, model.Skip{Symbol: sym, Stage: model.StageRotation, Reason: model.SkipMissingInstrument})
			continue
		}
		candidates = append(candidates, rec)
	}

	advice := &model.RotationAdvice{
		Growth:  def.Growth,
		Mode:    model.RotationDefensive,
		Ranking: RankByComposite(candidates),
	}
	if g, ok := records[def.Growth]; ok {
		advice.GrowthScore = g.CompositeScore
		if IsFavorable(g.CompositeScore) {
			advice.Mode = model.RotationGrowth
			advice.Favor = g.Symbol
			return advice, skips
		}
	}
	for _, r := range advice.Ranking {
		if r.Symbol != def.Growth {
			advice.Favor = r.Symbol
			break
		}
	}
	return advice, skips
}
