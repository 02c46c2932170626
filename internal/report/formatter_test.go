package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"MarketPulse/internal/model"
)

func TestFormatEvaluation(t *testing.T) {
	ev := &model.Evaluation{
		CycleID: "abc",
		AsOf:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Records: []model.IndicatorRecord{
			{Symbol: "QQQ", DisplayName: "Nasdaq 100", LatestPrice: 520.5, TrendBias: 2.1,
				TrendStatus: model.TrendStrong, RSIValue: 61, RSIStatus: model.RSINeutral, CompositeScore: 100},
		},
		Strength: []model.RelativeStrengthRecord{{Symbol: "QQQ", Ratio: 1.0476, TargetReturn: 0.1, BenchmarkReturn: 0.05, Outperforming: true}},
		Baskets:  []model.BasketSummary{{Name: "growth", Members: 1, AverageBias: 2.1, StrongCount: 1, Leader: "QQQ", LeaderKey: model.LeaderByBias, LeaderValue: 2.1}},
		Cohorts:  []model.BasketSummary{{Name: "rich club", Floor: 1000, LeaderKey: model.LeaderByPrice}},
		Scorecard: &model.Scorecard{Score: 1, Regime: model.RegimeDefensive, Factors: []model.FactorResult{
			{Name: "chips", Symbol: "SOXX", Polarity: model.PolarityNormal, Bias: 1.5, Pass: true, Available: true},
			{Name: "dollar", Symbol: "DX-Y.NYB", Polarity: model.PolarityInverted},
		}},
		Rotation: &model.RotationAdvice{Growth: "QQQ", GrowthScore: 100, Favor: "QQQ", Mode: model.RotationGrowth},
		Skipped:  []model.Skip{{Symbol: "DX-Y.NYB", Stage: model.StageScorecard, Reason: model.SkipMissingInstrument, Detail: "no series"}},
	}

	out := FormatEvaluation(ev)
	for _, want := range []string{
		"as of 2025-06-02 | cycle abc",
		"Nasdaq 100",
		"ratio 1.0476 (+10.00% vs +5.00%) OUT",
		"leader QQQ (bias 2.10)",
		"floor 1000 no leader",
		"Scorecard 1/2: defensive",
		"n/a",
		"Rotation: GROWTH (growth QQQ scored 100), favor QQQ",
		"scorecard  MISSING_INSTRUMENT: no series",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatEvaluation_OmitsEmptySections(t *testing.T) {
	out := FormatEvaluation(&model.Evaluation{AsOf: time.Now()})
	assert.False(t, strings.Contains(out, "Scorecard"))
	assert.False(t, strings.Contains(out, "Rotation"))
	assert.False(t, strings.Contains(out, "Skipped"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
