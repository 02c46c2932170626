package strategy

import (
	"github.com/montanaflynn/stats"

	"MarketPulse/internal/model"
)

// Predicate selects records for a cohort.
type Predicate func(model.IndicatorRecord) bool

// PriceFloor keeps records priced at or above floor.
func PriceFloor(floor float64) Predicate {
	return func(r model.IndicatorRecord) bool { return r.LatestPrice >= floor }
}

func leaderValue(r model.IndicatorRecord, key model.LeaderKey) float64 {
	switch key {
	case model.LeaderByPrice:
		return r.LatestPrice
	case model.LeaderByMomentum:
		return r.QuarterMomentum
	case model.LeaderByScore:
		return float64(r.CompositeScore)
	default:
		return r.TrendBias
	}
}

// summarize makes a single pass over records: filter, strong/weak split, bias mean and leader.
// Ties for leader keep the earlier record.
func summarize(name string, records []model.IndicatorRecord, key model.LeaderKey, keep Predicate) model.BasketSummary {
	if key == "" {
		key = model.LeaderByBias
	}
	sum := model.BasketSummary{Name: name, LeaderKey: key}
	biases := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		if keep != nil && !keep(r) {
			continue
		}
		biases = append(biases, r.TrendBias)
		if r.TrendStatus == model.TrendStrong {
			sum.StrongCount++
		} else {
			sum.WeakCount++
		}
		if v := leaderValue(r, key); sum.Leader == "" || v > sum.LeaderValue {
			sum.Leader = r.Symbol
			sum.LeaderValue = v
		}
	}
	sum.Members = len(biases)
	if sum.Members > 0 {
		sum.AverageBias, _ = biases.Mean()
	}
	return sum
}

// SummarizeBasket averages bias over the records present. Instruments without a record
// are simply absent, so they count in neither numerator nor denominator.
func SummarizeBasket(name string, records []model.IndicatorRecord, key model.LeaderKey) model.BasketSummary {
	return summarize(name, records, key, nil)
}

// Cohort summarizes the records passing keep; the leader is the highest-priced member.
// An empty cohort has zero counts and no leader.
func Cohort(name string, records []model.IndicatorRecord, keep Predicate) model.BasketSummary {
	return summarize(name, records, model.LeaderByPrice, keep)
}

// basketRecords picks the records of the listed symbols in basket order.
func basketRecords(symbols []string, records map[string]model.IndicatorRecord) []model.IndicatorRecord {
	out := make([]model.IndicatorRecord, 0, len(symbols))
	for _, s := range symbols {
		if r, ok := records[s]; ok {
			out = append(out, r)
		}
	}
	return out
}
