package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`
	DataSource struct {
		Provider     string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo mock"`
		LookbackDays int           `yaml:"lookback_days" default:"120" validate:"gte=1"`
		RatePerSec   float64       `yaml:"rate_per_sec" default:"2" validate:"gt=0"`
		Burst        int           `yaml:"burst" default:"1" validate:"gte=1"`
		Timeout      time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"data_source"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl" default:"5m"`
	} `yaml:"redis"`
	Schedule struct {
		EvalCron string `yaml:"eval_cron" default:"0 */5 * * * *" validate:"required"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/market_pulse.db"`
	} `yaml:"database"`
	Snapshot struct {
		File string `yaml:"file" default:"data/last_evaluation.json"`
	} `yaml:"snapshot"`
	Metrics struct {
		Addr string `yaml:"addr" default:":9102"`
	} `yaml:"metrics"`
	Signals struct {
		MAWindow   int     `yaml:"ma_window" default:"20" validate:"gte=1"`
		RSIWindow  int     `yaml:"rsi_window" default:"14" validate:"gte=1"`
		Lookback   int     `yaml:"lookback" default:"60" validate:"gte=1"`
		Overbought float64 `yaml:"overbought" default:"70" validate:"gt=0,lte=100"`
		Oversold   float64 `yaml:"oversold" default:"30" validate:"gte=0,lt=100"`
	} `yaml:"signals"`
	Universe UniverseConfig `yaml:"universe"`
	Proxy    string         `yaml:"proxy"`
}

// UniverseConfig is the YAML shape of a dashboard variant.
type UniverseConfig struct {
	Benchmark string            `yaml:"benchmark" validate:"required"`
	Names     map[string]string `yaml:"names"`
	Baskets   []struct {
		Name     string   `yaml:"name" validate:"required"`
		Symbols  []string `yaml:"symbols" validate:"required,min=1"`
		LeaderBy string   `yaml:"leader_by"`
	} `yaml:"baskets" validate:"required,min=1,dive"`
	Cohorts []struct {
		Name       string  `yaml:"name" validate:"required"`
		Basket     string  `yaml:"basket" validate:"required"`
		PriceFloor float64 `yaml:"price_floor" validate:"gte=0"`
	} `yaml:"cohorts" validate:"dive"`
	Scorecard []struct {
		Name     string `yaml:"name" validate:"required"`
		Symbol   string `yaml:"symbol" validate:"required"`
		Polarity string `yaml:"polarity" validate:"omitempty,oneof=normal inverted NORMAL INVERTED"`
	} `yaml:"scorecard" validate:"dive"`
	Rotation *struct {
		Growth    string   `yaml:"growth" validate:"required"`
		Defensive []string `yaml:"defensive" validate:"required,min=1"`
	} `yaml:"rotation"`
}

// Load reads config from a YAML file on top of defaults, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PULSE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PULSE_DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("PULSE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("PULSE_EVAL_CRON"); v != "" {
		cfg.Schedule.EvalCron = v
	}
	if v := os.Getenv("PULSE_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PULSE_SNAPSHOT_FILE"); v != "" {
		cfg.Snapshot.File = v
	}
	if v := os.Getenv("PULSE_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	return cfg, nil
}

// Validate checks field constraints, then the universe and signal params as the engine will see them.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.DataSource.LookbackDays < c.Signals.Lookback+1 {
		return fmt.Errorf("data_source.lookback_days (%d) must cover signals.lookback+1 (%d)",
			c.DataSource.LookbackDays, c.Signals.Lookback+1)
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	u := c.Universe.Build()
	return u.Validate()
}

// Params maps the signals section onto engine params.
func (c *Config) Params() strategy.Params {
	return strategy.Params{
		MAWindow:   c.Signals.MAWindow,
		RSIWindow:  c.Signals.RSIWindow,
		Lookback:   c.Signals.Lookback,
		Overbought: c.Signals.Overbought,
		Oversold:   c.Signals.Oversold,
	}
}

// Build converts the YAML universe into the engine's definition.
// Polarity defaults to normal.
func (uc *UniverseConfig) Build() *model.Universe {
	u := &model.Universe{
		Names:     make(map[string]string, len(uc.Names)),
		Benchmark: uc.Benchmark,
	}
	for k, v := range uc.Names {
		u.Names[k] = v
	}
	for _, b := range uc.Baskets {
		u.Baskets = append(u.Baskets, model.Basket{
			Name:     b.Name,
			Symbols:  append([]string(nil), b.Symbols...),
			LeaderBy: model.LeaderKey(strings.ToLower(b.LeaderBy)),
		})
	}
	for _, c := range uc.Cohorts {
		u.Cohorts = append(u.Cohorts, model.CohortDef{Name: c.Name, Basket: c.Basket, Floor: c.PriceFloor})
	}
	for _, f := range uc.Scorecard {
		pol := model.PolarityNormal
		if f.Polarity != "" {
			pol = model.Polarity(strings.ToUpper(f.Polarity))
		}
		u.Scorecard = append(u.Scorecard, model.ScoreFactor{Name: f.Name, Symbol: f.Symbol, Polarity: pol})
	}
	if uc.Rotation != nil {
		u.Rotation = &model.RotationDef{
			Growth:    uc.Rotation.Growth,
			Defensive: append([]string(nil), uc.Rotation.Defensive...),
		}
	}
	return u
}
