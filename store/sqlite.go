package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Lakeshed/applied-machine-learning/bench"
	"github.com/Lakeshed/applied-machine-learning/gridsearch"
	_ "modernc.org/sqlite"
)

const schemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

const resultSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    dataset TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    elapsed_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

CREATE TABLE IF NOT EXISTS grid_outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    p INTEGER NOT NULL,
    d INTEGER NOT NULL,
    q INTEGER NOT NULL,
    mse REAL, -- NULL when the configuration failed
    elapsed_ns INTEGER NOT NULL,
    error TEXT NOT NULL,
    best INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_grid_outcomes_run ON grid_outcomes(run_id);

CREATE TABLE IF NOT EXISTS timing_samples (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    workers INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL,
    run_count INTEGER NOT NULL,
    error TEXT NOT NULL,
    fastest INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_timing_samples_run ON timing_samples(run_id);
`

// SQLiteStore persists runs to a single SQLite file. The mutex serializes
// writers; WAL mode lets readers proceed alongside them.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens the results database at path, creating the file and schema on
// first use.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(schemaVersionTable); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	err = tx.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read schema version: %w", err)
	}

	if current < 1 {
		if _, err := tx.Exec(resultSchema); err != nil {
			return fmt.Errorf("create result tables: %w", err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (1)"); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	}

	return tx.Commit()
}

// SaveGridRun persists a grid sweep and returns its run ID. Failed
// configurations are stored with a NULL score and their error text, so an
// all-failed sweep is saved like any other.
func (s *SQLiteStore) SaveGridRun(dataset string, result *gridsearch.Result) (int64, error) {
	if result == nil {
		return 0, errors.New("nil grid result")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO runs (kind, dataset, created_at, elapsed_ns)
		VALUES (?, ?, ?, ?)
	`, KindGrid, dataset, time.Now().UnixMicro(), result.Elapsed.Nanoseconds())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO grid_outcomes (run_id, position, p, d, q, mse, elapsed_ns, error, best)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		var mse interface{}
		errText := ""
		if o.Failed() {
			errText = o.Err.Error()
		} else {
			mse = o.MSE
		}
		best := result.Best == o
		if _, err := stmt.Exec(runID, i, o.Order.P, o.Order.D, o.Order.Q, mse, o.Elapsed.Nanoseconds(), errText, best); err != nil {
			return 0, fmt.Errorf("insert outcome %s: %w", o.Order, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// SaveTimingRun persists a timing sweep and returns its run ID.
func (s *SQLiteStore) SaveTimingRun(dataset string, result *bench.Result) (int64, error) {
	if result == nil {
		return 0, errors.New("nil timing result")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO runs (kind, dataset, created_at, elapsed_ns)
		VALUES (?, ?, ?, ?)
	`, KindTiming, dataset, time.Now().UnixMicro(), result.Elapsed.Nanoseconds())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO timing_samples (run_id, position, workers, duration_ns, run_count, error, fastest)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare sample insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range result.Samples {
		smp := &result.Samples[i]
		errText := ""
		if smp.Failed() {
			errText = smp.Err.Error()
		}
		fastest := result.Fastest == smp
		if _, err := stmt.Exec(runID, i, smp.Workers, smp.Duration.Nanoseconds(), len(smp.Runs), errText, fastest); err != nil {
			return 0, fmt.Errorf("insert sample for %d workers: %w", smp.Workers, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns persisted runs, most recent first.
func (s *SQLiteStore) ListRuns(kind string) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, kind, dataset, created_at, elapsed_ns FROM runs"
	var args []interface{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]Run, 0)
	for rows.Next() {
		var r Run
		var createdAt, elapsed int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.Dataset, &createdAt, &elapsed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt = time.UnixMicro(createdAt).UTC()
		r.Elapsed = time.Duration(elapsed)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GridOutcomes returns a grid run's rows in sweep order.
func (s *SQLiteStore) GridOutcomes(runID int64) ([]GridOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p, d, q, mse, elapsed_ns, error, best
		FROM grid_outcomes
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query grid outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	outcomes := make([]GridOutcome, 0)
	for rows.Next() {
		var o GridOutcome
		var mse sql.NullFloat64
		var elapsed int64
		if err := rows.Scan(&o.P, &o.D, &o.Q, &mse, &elapsed, &o.Error, &o.Best); err != nil {
			return nil, fmt.Errorf("scan grid outcome: %w", err)
		}
		if mse.Valid {
			o.MSE = mse.Float64
		}
		o.Elapsed = time.Duration(elapsed)
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grid outcomes: %w", err)
	}
	return outcomes, nil
}

// TimingSamples returns a timing run's rows in sweep order.
func (s *SQLiteStore) TimingSamples(runID int64) ([]TimingSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT workers, duration_ns, run_count, error, fastest
		FROM timing_samples
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query timing samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	samples := make([]TimingSample, 0)
	for rows.Next() {
		var smp TimingSample
		var duration int64
		if err := rows.Scan(&smp.Workers, &duration, &smp.Runs, &smp.Error, &smp.Fastest); err != nil {
			return nil, fmt.Errorf("scan timing sample: %w", err)
		}
		smp.Duration = time.Duration(duration)
		samples = append(samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timing samples: %w", err)
	}
	return samples, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
