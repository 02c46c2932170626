package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"MarketPulse/internal/model"
)

// SQLiteRecorder persists evaluations to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while cycles write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id        TEXT NOT NULL UNIQUE,
			as_of           INTEGER NOT NULL,
			records         INTEGER,
			skipped         INTEGER,
			scorecard_score INTEGER,
			regime          TEXT,
			rotation_favor  TEXT,
			rotation_mode   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_as_of ON evaluations(as_of)`,

		`CREATE TABLE IF NOT EXISTS indicator_records (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id         TEXT NOT NULL,
			symbol           TEXT NOT NULL,
			display_name     TEXT,
			latest_price     REAL,
			trend_bias       REAL,
			trend_status     TEXT,
			rsi_value        REAL,
			rsi_status       TEXT,
			quarter_momentum REAL,
			composite_score  INTEGER,
			as_of            INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_indicator_symbol ON indicator_records(symbol, as_of)`,

		`CREATE TABLE IF NOT EXISTS strength_records (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id         TEXT NOT NULL,
			symbol           TEXT NOT NULL,
			target_return    REAL,
			benchmark_return REAL,
			ratio            REAL,
			outperforming    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_strength_cycle ON strength_records(cycle_id)`,

		`CREATE TABLE IF NOT EXISTS basket_summaries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id     TEXT NOT NULL,
			name         TEXT NOT NULL,
			kind         TEXT NOT NULL,
			members      INTEGER,
			average_bias REAL,
			strong_count INTEGER,
			weak_count   INTEGER,
			leader       TEXT,
			leader_value REAL,
			leader_key   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_basket_cycle ON basket_summaries(cycle_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordEvaluation writes one cycle and all its rows in a single transaction.
func (r *SQLiteRecorder) RecordEvaluation(ev *model.Evaluation) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var score sql.NullInt64
	var regime, favor, mode sql.NullString
	if ev.Scorecard != nil {
		score = sql.NullInt64{Int64: int64(ev.Scorecard.Score), Valid: true}
		regime = sql.NullString{String: string(ev.Scorecard.Regime), Valid: true}
	}
	if ev.Rotation != nil {
		favor = sql.NullString{String: ev.Rotation.Favor, Valid: true}
		mode = sql.NullString{String: string(ev.Rotation.Mode), Valid: true}
	}

	if _, err = tx.Exec(`INSERT INTO evaluations
		(cycle_id, as_of, records, skipped, scorecard_score, regime, rotation_favor, rotation_mode)
		VALUES (?,?,?,?,?,?,?,?)`,
		ev.CycleID, ev.AsOf.Unix(), len(ev.Records), len(ev.Skipped), score, regime, favor, mode,
	); err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	for _, rec := range ev.Records {
		if _, err = tx.Exec(`INSERT INTO indicator_records
			(cycle_id, symbol, display_name, latest_price, trend_bias, trend_status,
			 rsi_value, rsi_status, quarter_momentum, composite_score, as_of)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			ev.CycleID, rec.Symbol, rec.DisplayName, rec.LatestPrice, rec.TrendBias, string(rec.TrendStatus),
			rec.RSIValue, string(rec.RSIStatus), rec.QuarterMomentum, rec.CompositeScore, rec.AsOf.Unix(),
		); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.Symbol, err)
		}
	}

	for _, s := range ev.Strength {
		if _, err = tx.Exec(`INSERT INTO strength_records
			(cycle_id, symbol, target_return, benchmark_return, ratio, outperforming)
			VALUES (?,?,?,?,?,?)`,
			ev.CycleID, s.Symbol, s.TargetReturn, s.BenchmarkReturn, s.Ratio, s.Outperforming,
		); err != nil {
			return fmt.Errorf("insert strength %s: %w", s.Symbol, err)
		}
	}

	if err = insertSummaries(tx, ev.CycleID, "basket", ev.Baskets); err != nil {
		return err
	}
	if err = insertSummaries(tx, ev.CycleID, "cohort", ev.Cohorts); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertSummaries(tx *sql.Tx, cycleID, kind string, sums []model.BasketSummary) error {
	for _, b := range sums {
		if _, err := tx.Exec(`INSERT INTO basket_summaries
			(cycle_id, name, kind, members, average_bias, strong_count, weak_count, leader, leader_value, leader_key)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			cycleID, b.Name, kind, b.Members, b.AverageBias, b.StrongCount, b.WeakCount,
			b.Leader, b.LeaderValue, string(b.LeaderKey),
		); err != nil {
			return fmt.Errorf("insert %s %s: %w", kind, b.Name, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
