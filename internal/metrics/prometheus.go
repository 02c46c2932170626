package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"MarketPulse/internal/model"
)

const namespace = "market_pulse"

// Metrics exposes the latest evaluation as Prometheus series.
type Metrics struct {
	TrendBias      *prometheus.GaugeVec
	CompositeScore *prometheus.GaugeVec
	RSI            *prometheus.GaugeVec
	StrengthRatio  *prometheus.GaugeVec
	BasketBias     *prometheus.GaugeVec
	ScorecardScore *prometheus.GaugeVec
	Skips          *prometheus.CounterVec
	CycleDuration  *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TrendBias: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "indicator", Name: "trend_bias_percent",
			Help: "Percent deviation of the latest close from its trailing mean",
		}, []string{"symbol"}),
		CompositeScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "indicator", Name: "composite_score",
			Help: "Composite 0-100 score per instrument",
		}, []string{"symbol"}),
		RSI: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "indicator", Name: "rsi",
			Help: "Relative strength index per instrument",
		}, []string{"symbol"}),
		StrengthRatio: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "strength", Name: "ratio",
			Help: "Relative strength ratio against the benchmark",
		}, []string{"symbol"}),
		BasketBias: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "basket", Name: "average_bias_percent",
			Help: "Average trend bias over the members present",
		}, []string{"basket"}),
		ScorecardScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "scorecard", Name: "score",
			Help: "Number of passing scorecard factors, labeled with the regime",
		}, []string{"regime"}),
		Skips: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "engine", Name: "skips_total",
			Help: "Symbols left out of an output set",
		}, []string{"stage", "reason"}),
		CycleDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "cycle", Name: "duration_seconds",
			Help:    "Wall time of a collect-evaluate-record cycle",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
	}
}

// ObserveEvaluation publishes the readings of one cycle.
// Gauges are reset first so symbols skipped this cycle, and a scorecard the cycle
// did not produce, disappear.
func (m *Metrics) ObserveEvaluation(ev *model.Evaluation) {
	m.TrendBias.Reset()
	m.CompositeScore.Reset()
	m.RSI.Reset()
	m.StrengthRatio.Reset()
	m.BasketBias.Reset()
	m.ScorecardScore.Reset()

	for _, r := range ev.Records {
		m.TrendBias.WithLabelValues(r.Symbol).Set(r.TrendBias)
		m.CompositeScore.WithLabelValues(r.Symbol).Set(float64(r.CompositeScore))
		m.RSI.WithLabelValues(r.Symbol).Set(r.RSIValue)
	}
	for _, s := range ev.Strength {
		m.StrengthRatio.WithLabelValues(s.Symbol).Set(s.Ratio)
	}
	for _, b := range ev.Baskets {
		m.BasketBias.WithLabelValues(b.Name).Set(b.AverageBias)
	}
	if ev.Scorecard != nil {
		m.ScorecardScore.WithLabelValues(string(ev.Scorecard.Regime)).Set(float64(ev.Scorecard.Score))
	}
	for _, s := range ev.Skipped {
		m.Skips.WithLabelValues(s.Stage, string(s.Reason)).Inc()
	}
}

// ObserveCycle records how long a cycle took and whether it succeeded.
func (m *Metrics) ObserveCycle(d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CycleDuration.WithLabelValues(status).Observe(d.Seconds())
}
