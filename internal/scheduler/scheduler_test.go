package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketPulse/internal/collector"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/snapshot"
	"MarketPulse/internal/strategy"
)

type failingRecorder struct{ calls int }

func (f *failingRecorder) RecordEvaluation(*model.Evaluation) error {
	f.calls++
	return errors.New("disk full")
}
func (f *failingRecorder) Close() error { return nil }

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func testUniverse() *model.Universe {
	return &model.Universe{
		Names:     map[string]string{"QQQ": "Nasdaq 100"},
		Baskets:   []model.Basket{{Name: "core", Symbols: []string{"QQQ", "TLT", "GLD"}}},
		Benchmark: "SPY",
		Rotation:  &model.RotationDef{Growth: "QQQ", Defensive: []string{"TLT", "GLD"}},
	}
}

func newTestScheduler(t *testing.T, f collector.Fetcher, rec recorder.Recorder) *Scheduler {
	t.Helper()
	col := collector.NewCollector(f, 80, 0, 1, zerolog.Nop())
	return NewScheduler(context.Background(), col, testUniverse(), strategy.DefaultParams(), rec, zerolog.Nop())
}

func TestRunNow_FullCycle(t *testing.T) {
	f := &collector.MockFetcher{
		Closes: map[string][]float64{
			"QQQ": ramp(100, 1, 80),
			"TLT": ramp(100, -0.5, 80),
			"SPY": ramp(100, 0.5, 80),
		},
		Errors: map[string]error{"GLD": errors.New("no data")},
	}
	s := newTestScheduler(t, f, recorder.NewNoopRecorder())
	var out bytes.Buffer
	s.Out = &out
	s.Metrics = metrics.New(prometheus.NewRegistry())
	store, err := snapshot.NewStore("")
	require.NoError(t, err)
	s.Snapshots = store

	ev, err := s.RunNow(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, ev.CycleID)
	assert.Len(t, ev.Records, 3)
	require.NotNil(t, ev.Rotation)
	assert.Equal(t, model.RotationGrowth, ev.Rotation.Mode)
	assert.Equal(t, "QQQ", ev.Rotation.Favor)

	var missing bool
	for _, sk := range ev.Skipped {
		if sk.Symbol == "GLD" && sk.Reason == model.SkipMissingInstrument {
			missing = true
		}
	}
	assert.True(t, missing, "failed fetch surfaces as a missing instrument")

	assert.Contains(t, out.String(), "Nasdaq 100")
	assert.Equal(t, 100.0, testutil.ToFloat64(s.Metrics.CompositeScore.WithLabelValues("QQQ")))
	assert.Same(t, ev, store.Latest())
}

func TestRunNow_RecorderErrorDoesNotFailCycle(t *testing.T) {
	rec := &failingRecorder{}
	s := newTestScheduler(t, &collector.MockFetcher{}, rec)

	ev, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ev)
	assert.Equal(t, 1, rec.calls)
}

func TestRunNow_CancelledContext(t *testing.T) {
	s := newTestScheduler(t, &collector.MockFetcher{}, recorder.NewNoopRecorder())
	s.Collector = collector.NewCollector(&collector.MockFetcher{}, 80, 1, 1, zerolog.Nop())
	s.Metrics = metrics.New(prometheus.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.RunNow(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, testutil.CollectAndCount(s.Metrics.CycleDuration))
}

func TestRunNow_CycleIDsDiffer(t *testing.T) {
	s := newTestScheduler(t, &collector.MockFetcher{}, recorder.NewNoopRecorder())
	a, err := s.RunNow(context.Background())
	require.NoError(t, err)
	b, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.CycleID, b.CycleID)
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(t, &collector.MockFetcher{}, recorder.NewNoopRecorder())
	require.NoError(t, s.RegisterAll("0 */5 * * * *"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterAll("every five minutes"))
}
