package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"MarketPulse/internal/collector"
	"MarketPulse/internal/config"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/report"
	"MarketPulse/internal/scheduler"
	"MarketPulse/internal/snapshot"
)

// loadConfig loads and validates the config. A non-empty provider overrides
// data_source.provider before validation.
func loadConfig(path, provider string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if provider != "" {
		cfg.DataSource.Provider = provider
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// app holds the wired collaborators of one process.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	sched *scheduler.Scheduler
	rdb   *redis.Client
	rec   recorder.Recorder
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
	}
	if cfg.Redis.Addr != "" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := a.rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, cache falls through")
		}
		cancel()
		fetcher = collector.NewCachingFetcher(a.rdb, cfg.Redis.TTL, fetcher, "series")
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.DataSource.LookbackDays,
		cfg.DataSource.RatePerSec, cfg.DataSource.Burst, log.With().Str("component", "collector").Logger())

	// Init recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			a.rec = recorder.NewNoopRecorder()
		} else {
			a.rec = sr
		}
	} else {
		a.rec = recorder.NewNoopRecorder()
	}

	a.sched = scheduler.NewScheduler(ctx, col, cfg.Universe.Build(), cfg.Params(), a.rec,
		log.With().Str("component", "scheduler").Logger())

	store, err := snapshot.NewStore(cfg.Snapshot.File)
	if err != nil {
		log.Warn().Err(err).Msg("previous snapshot unreadable, starting fresh")
		store, _ = snapshot.NewStore("")
	}
	a.sched.Snapshots = store
	return a, nil
}

func (a *app) Close() {
	if err := a.rec.Close(); err != nil {
		a.log.Error().Err(err).Msg("close recorder")
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}

func runOnce(ctx context.Context, cfgPath, provider string, out io.Writer) error {
	cfg, err := loadConfig(cfgPath, provider)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.sched.Out = out
	_, err = a.sched.RunNow(ctx)
	return err
}

func runDaemon(cfgPath string, runOnStart bool) error {
	cfg, err := loadConfig(cfgPath, "")
	if err != nil {
		return err
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.sched.Metrics = metrics.New(reg)

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint listening")
	}

	if err := a.sched.RegisterAll(cfg.Schedule.EvalCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	a.sched.Start()

	if runOnStart {
		log.Info().Msg("run-on-start enabled, executing a cycle now")
		go func() {
			if _, err := a.sched.RunNow(ctx); err != nil {
				log.Error().Err(err).Msg("startup cycle failed")
			}
		}()
	}

	log.Info().Str("cron", cfg.Schedule.EvalCron).Msg("MarketPulse is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	a.sched.Stop()
	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}
	log.Info().Msg("MarketPulse stopped")
	return nil
}

func printLast(cfgPath string, out io.Writer) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ev, err := snapshot.Load(cfg.Snapshot.File)
	if err != nil {
		return err
	}
	if ev == nil {
		return fmt.Errorf("no snapshot at %s yet; run `pulse once` first", cfg.Snapshot.File)
	}
	_, err = io.WriteString(out, report.FormatEvaluation(ev))
	return err
}
