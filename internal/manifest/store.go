package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"audex/internal/extract"
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded extraction invocation.
type Run struct {
	ID          string
	Mode        string
	Input       string
	OutputDir   string
	Format      string
	StartedAt   time.Time
	FinishedAt  time.Time
	TotalRows   int64
	FilesOK     int64
	FilesFailed int64
}

// FileRecord is one processed input file within a run.
type FileRecord struct {
	RunID   string
	Input   string
	Rows    int64
	Written int64
	Skipped int64
	Failed  int64
	Error   string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    input TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    format TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    total_rows INTEGER NOT NULL DEFAULT 0,
    files_ok INTEGER NOT NULL DEFAULT 0,
    files_failed INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS run_files (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    input TEXT NOT NULL,
    row_count INTEGER NOT NULL DEFAULT 0,
    written INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, input)
);
`

// Open initializes or connects to the manifest database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create manifest directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open manifest db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply manifest schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun inserts a new run record and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, mode, input, outputDir, format string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, mode, input, output_dir, format, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, mode, input, outputDir, format, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordFile stores one processed input file's result under the run. A
// non-nil runErr marks the file as failed with its message.
func (s *Store) RecordFile(ctx context.Context, runID string, res extract.Result, runErr error) error {
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO run_files (run_id, input, row_count, written, skipped, failed, error)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Input, res.Rows, res.Written, res.SkippedExisting+res.SkippedInvalid, res.Failed, errText,
	)
	if err != nil {
		return fmt.Errorf("record file %s: %w", res.Input, err)
	}
	return nil
}

// FinishRun finalizes the run's totals and completion time.
func (s *Store) FinishRun(ctx context.Context, runID string, totalRows int64, filesOK, filesFailed int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, total_rows = ?, files_ok = ?, files_failed = ? WHERE id = ?`,
		now, totalRows, filesOK, filesFailed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, mode, input, output_dir, format, started_at, COALESCE(finished_at, ''),
                total_rows, files_ok, files_failed
         FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished string
		)
		if err := rows.Scan(&run.ID, &run.Mode, &run.Input, &run.OutputDir, &run.Format,
			&started, &finished, &run.TotalRows, &run.FilesOK, &run.FilesFailed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ListFiles returns the file records of one run ordered by input path.
func (s *Store) ListFiles(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, input, row_count, written, skipped, failed, error
         FROM run_files WHERE run_id = ? ORDER BY input`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var rec FileRecord
		if err := rows.Scan(&rec.RunID, &rec.Input, &rec.Rows, &rec.Written, &rec.Skipped, &rec.Failed, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files: %w", err)
	}
	return records, nil
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
