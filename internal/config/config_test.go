package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketPulse/internal/model"
)

const minimalYAML = `
universe:
  benchmark: SPY
  names:
    NVDA: Nvidia
  baskets:
    - name: tech
      symbols: [NVDA, AAPL]
      leader_by: Price
  cohorts:
    - name: rich
      basket: tech
      price_floor: 1000
  scorecard:
    - {name: momentum, symbol: SOXX}
    - {name: confidence, symbol: RSP, polarity: normal}
    - {name: currency, symbol: DXY, polarity: inverted}
    - {name: rates, symbol: TNX, polarity: INVERTED}
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 120, cfg.DataSource.LookbackDays)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "0 */5 * * * *", cfg.Schedule.EvalCron)
	assert.Equal(t, "data/last_evaluation.json", cfg.Snapshot.File)

	p := cfg.Params()
	assert.Equal(t, 20, p.MAWindow)
	assert.Equal(t, 14, p.RSIWindow)
	assert.Equal(t, 60, p.Lookback)
	assert.Equal(t, 70.0, p.Overbought)
	assert.Equal(t, 30.0, p.Oversold)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PULSE_LOG_LEVEL", "debug")
	t.Setenv("PULSE_DATA_PROVIDER", "mock")
	t.Setenv("PULSE_REDIS_ADDR", "localhost:6379")
	t.Setenv("PULSE_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("PULSE_EVAL_CRON", "0 * * * * *")
	t.Setenv("PULSE_SNAPSHOT_FILE", "/tmp/last.json")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "mock", cfg.DataSource.Provider)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "/tmp/x.db", cfg.Database.SQLitePath)
	assert.Equal(t, "0 * * * * *", cfg.Schedule.EvalCron)
	assert.Equal(t, "/tmp/last.json", cfg.Snapshot.File)
}

func TestUniverseBuild(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	u := cfg.Universe.Build()
	assert.Equal(t, "Nvidia", u.DisplayName("NVDA"))
	assert.Equal(t, "AAPL", u.DisplayName("AAPL"))
	assert.Equal(t, model.LeaderByPrice, u.Baskets[0].LeaderBy)
	require.Len(t, u.Scorecard, 4)
	assert.Equal(t, model.PolarityNormal, u.Scorecard[0].Polarity)
	assert.Equal(t, model.PolarityInverted, u.Scorecard[2].Polarity)
	assert.Equal(t, model.PolarityInverted, u.Scorecard[3].Polarity)
	assert.Equal(t, 1000.0, u.Cohorts[0].Floor)
	assert.Nil(t, u.Rotation)
	assert.Equal(t, []string{"NVDA", "AAPL", "SPY", "SOXX", "RSP", "DXY", "TNX"}, u.Symbols())
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing file has no universe", ""},
		{"basket without symbols", "universe:\n  benchmark: SPY\n  baskets:\n    - name: empty\n"},
		{"cohort on unknown basket", "universe:\n  benchmark: SPY\n  baskets:\n    - {name: a, symbols: [X]}\n  cohorts:\n    - {name: c, basket: b}\n"},
		{"three factor scorecard", "universe:\n  benchmark: SPY\n  baskets:\n    - {name: a, symbols: [X]}\n  scorecard:\n    - {name: a, symbol: A}\n    - {name: b, symbol: B}\n    - {name: c, symbol: C}\n"},
		{"bad log format", "log:\n  format: xml\n" + minimalYAML},
		{"lookback longer than history", "data_source:\n  lookback_days: 30\n" + minimalYAML},
		{"inverted rsi bands", "signals:\n  overbought: 20\n  oversold: 40\n" + minimalYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if tt.body != "" {
				path = writeConfig(t, tt.body)
			}
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	u := cfg.Universe.Build()
	assert.Len(t, u.Baskets, 6)
	require.NotNil(t, u.Rotation)
	assert.Equal(t, "QQQ", u.Rotation.Growth)
}
