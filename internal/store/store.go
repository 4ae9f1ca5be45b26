// Package store persists simulation run traces to SQLite so runs can be
// inspected after the fact. The simulator core itself keeps no state
// between runs; recording is strictly optional.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for run traces.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path (":memory:"
// for an in-memory store). Applies pragmas and the schema; idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports one writer at a time; keep a single connection to
	// avoid SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Run is one recorded simulation run.
type Run struct {
	ID              string
	Scenario        string
	StartedAtMillis int64
	Cycles          int
	Reports         int
	Errors          int
	Passed          bool
	Finished        bool
}

// ReportRow is one recorded device report.
type ReportRow struct {
	RunID      string
	Seq        int
	Cycle      int
	TimeMillis int64
	Kind       string
	Summary    string
}

// BeginRun registers a run before its first cycle.
func (s *Store) BeginRun(ctx context.Context, id, scenario string, startedAtMillis int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, started_ms)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, scenario, startedAtMillis)
	if err != nil {
		return fmt.Errorf("begin run %s: %w", id, err)
	}
	return nil
}

// FinishRun records the final counters and verdict of a run.
func (s *Store) FinishRun(ctx context.Context, id string, cycles, reports, errors int, passed bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET cycles = ?, reports = ?, errors = ?, passed = ?, finished = 1
		WHERE id = ?
	`, cycles, reports, errors, passed, id)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: run not found", id)
	}
	return nil
}

// RecordReport appends one report to a run's trace. Duplicate (run, seq)
// pairs are silently ignored so replays stay idempotent.
func (s *Store) RecordReport(ctx context.Context, row ReportRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (run_id, seq, cycle, time_ms, kind, summary)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`, row.RunID, row.Seq, row.Cycle, row.TimeMillis, row.Kind, row.Summary)
	if err != nil {
		return fmt.Errorf("record report %s/%d: %w", row.RunID, row.Seq, err)
	}
	return nil
}

// Run reads one run by id.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, started_ms, cycles, reports, errors, passed, finished
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Scenario, &r.StartedAtMillis, &r.Cycles, &r.Reports, &r.Errors, &r.Passed, &r.Finished)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return r, nil
}

// Runs lists all recorded runs ordered by start time.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, started_ms, cycles, reports, errors, passed, finished
		FROM runs ORDER BY started_ms, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Scenario, &r.StartedAtMillis, &r.Cycles, &r.Reports, &r.Errors, &r.Passed, &r.Finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Reports reads a run's trace in emission order.
func (s *Store) Reports(ctx context.Context, runID string) ([]ReportRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, cycle, time_ms, kind, summary
		FROM reports WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list reports for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var r ReportRow
		if err := rows.Scan(&r.RunID, &r.Seq, &r.Cycle, &r.TimeMillis, &r.Kind, &r.Summary); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
