package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
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

	// WAL lets the history command read while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
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
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			instrument  TEXT NOT NULL,
			benchmark   TEXT NOT NULL,
			source      TEXT,
			data_from   INTEGER,
			data_to     INTEGER,
			days        INTEGER,
			duration_ms INTEGER,
			signals     INTEGER,
			window_days INTEGER,
			rearm_days  INTEGER,
			horizon_days INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_signals (
			run_id      INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq         INTEGER NOT NULL,
			signal_date INTEGER NOT NULL,
			ratio       REAL,
			PRIMARY KEY (run_id, seq)
		)`,

		`CREATE TABLE IF NOT EXISTS run_horizon_stats (
			run_id       INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			checkpoint   TEXT NOT NULL,
			offset_days  INTEGER,
			n_values     INTEGER,
			hit_ratio    REAL,
			minimum      REAL,
			maximum      REAL,
			mean         REAL,
			median       REAL,
			range_value  REAL,
			std_dev      REAL,
			variance     REAL,
			mean_abs_dev REAL,
			error        TEXT,
			PRIMARY KEY (run_id, checkpoint)
		)`,

		`CREATE TABLE IF NOT EXISTS failures (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			instrument TEXT,
			benchmark  TEXT,
			stage      TEXT,
			message    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// RecordRun writes the run row with its signals and checkpoint statistics in
// one transaction and sets run.ID.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	if run.Result == nil {
		return errors.New("record run: missing result")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	rs := run.Result
	run.Signals = rs.SignalCount()
	if run.Days == 0 {
		run.Days = len(rs.Series)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(timestamp, instrument, benchmark, source, data_from, data_to, days,
		 duration_ms, signals, window_days, rearm_days, horizon_days)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.Timestamp.Unix(), rs.Instrument, rs.Benchmark, run.Source,
		unixOrZero(rs.DataFrom), unixOrZero(rs.DataTo), run.Days,
		run.Duration.Milliseconds(), run.Signals,
		rs.Params.Window, rs.Params.Rearm, rs.Params.Horizon,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, s := range rs.Signals {
		if _, err := tx.Exec(`INSERT INTO run_signals (run_id, seq, signal_date, ratio) VALUES (?,?,?,?)`,
			id, i, s.Date.Unix(), s.Ratio); err != nil {
			return fmt.Errorf("insert signal: %w", err)
		}
	}

	for _, st := range rs.Statistics {
		var (
			count                                     int
			hit, lo, hi, mean, median, rng, sd, v, md float64
		)
		if sm := st.Summary; sm != nil {
			count, hit, lo, hi = sm.Count, sm.HitRatio, sm.Minimum, sm.Maximum
			mean, median, rng = sm.Mean, sm.Median, sm.Range
			sd, v, md = sm.StdDev, sm.Variance, sm.MeanAbsDev
		}
		if _, err := tx.Exec(`INSERT INTO run_horizon_stats
			(run_id, checkpoint, offset_days, n_values, hit_ratio, minimum, maximum,
			 mean, median, range_value, std_dev, variance, mean_abs_dev, error)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			id, st.Checkpoint.Label, st.Checkpoint.Offset, count, hit, lo, hi,
			mean, median, rng, sd, v, md, st.Error,
		); err != nil {
			return fmt.Errorf("insert horizon stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	run.ID = id
	return nil
}

func (r *SQLiteRecorder) RecordFailure(evt *FailureEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO failures
		(timestamp, instrument, benchmark, stage, message)
		VALUES (?,?,?,?,?)`,
		ts.Unix(), evt.Instrument, evt.Benchmark, evt.Stage, evt.Message,
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, timestamp, instrument, benchmark, source,
		data_from, data_to, days, duration_ms, signals
		FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec              RunRecord
			ts, from, to, ms int64
			source           sql.NullString
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Instrument, &rec.Benchmark, &source,
			&from, &to, &rec.Days, &ms, &rec.Signals); err != nil {
			return nil, err
		}
		rec.Timestamp = time.Unix(ts, 0).UTC()
		rec.Source = source.String
		rec.DataFrom = timeOrZero(from)
		rec.DataTo = timeOrZero(to)
		rec.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FailureCount returns the number of recorded failures since t.
func (r *SQLiteRecorder) FailureCount(since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM failures WHERE timestamp >= ?`, since.Unix()).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
