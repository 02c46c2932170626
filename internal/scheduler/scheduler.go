package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"MarketPulse/internal/collector"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/report"
	"MarketPulse/internal/snapshot"
	"MarketPulse/internal/strategy"
)

// Scheduler runs evaluation cycles on a cron schedule.
// Metrics, Snapshots and Out are optional.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Universe  *model.Universe
	Params    strategy.Params
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Snapshots *snapshot.Store
	Out       io.Writer
	Ctx       context.Context

	log zerolog.Logger
	mu  sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, u *model.Universe, p strategy.Params, rec recorder.Recorder, log zerolog.Logger) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		Collector: col,
		Universe:  u,
		Params:    p,
		Recorder:  rec,
		Ctx:       ctx,
		log:       log,
	}
}

// RegisterAll registers the evaluation cycle.
func (s *Scheduler) RegisterAll(evalCron string) error {
	if _, err := s.Cron.AddFunc(evalCron, s.evalTask); err != nil {
		return fmt.Errorf("register evaluation task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) evalTask() {
	if _, err := s.RunNow(s.Ctx); err != nil {
		s.log.Error().Err(err).Msg("evaluation cycle failed")
	}
}

// RunNow executes one cycle immediately: collect, evaluate, report, metrics, record, snapshot.
// Only collection cancellation and engine misuse fail the cycle; sink errors are logged.
func (s *Scheduler) RunNow(ctx context.Context) (ev *model.Evaluation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	cycleID := uuid.NewString()
	log := s.log.With().Str("cycle", cycleID).Logger()
	defer func() {
		if s.Metrics != nil {
			s.Metrics.ObserveCycle(time.Since(start), err)
		}
	}()

	log.Info().Msg("running evaluation cycle")
	batch, err := s.Collector.Collect(ctx, s.Universe.Symbols())
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	ev, err = strategy.Evaluate(batch, s.Universe, s.Params)
	if err != nil {
		return nil, err
	}
	ev.CycleID = cycleID

	for _, sk := range ev.Skipped {
		log.Debug().Str("symbol", sk.Symbol).Str("stage", sk.Stage).Str("reason", string(sk.Reason)).Str("detail", sk.Detail).Msg("skipped")
	}

	if s.Out != nil {
		if _, err := io.WriteString(s.Out, report.FormatEvaluation(ev)); err != nil {
			log.Error().Err(err).Msg("write report")
		}
	}
	if s.Metrics != nil {
		s.Metrics.ObserveEvaluation(ev)
	}
	if err := s.Recorder.RecordEvaluation(ev); err != nil {
		log.Error().Err(err).Msg("record evaluation")
	}
	if s.Snapshots != nil {
		if err := s.Snapshots.Put(ev); err != nil {
			log.Error().Err(err).Msg("save snapshot")
		}
	}

	e := log.Info().
		Int("records", len(ev.Records)).
		Int("skipped", len(ev.Skipped)).
		Dur("took", time.Since(start))
	if ev.Scorecard != nil {
		e = e.Int("score", ev.Scorecard.Score).Str("regime", string(ev.Scorecard.Regime))
	}
	if ev.Rotation != nil {
		e = e.Str("favor", ev.Rotation.Favor)
	}
	e.Msg("evaluation cycle done")
	return ev, nil
}
