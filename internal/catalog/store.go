package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"robonorm/internal/dataset"
	"robonorm/internal/services"
)

// ErrRunNotFound is returned when the requested run id has no catalog row.
var ErrRunNotFound = fmt.Errorf("scan run not found: %w", services.ErrNotFound)

// Store manages scan history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies
// migrations. The catalog directory is created if missing.
func Open(catalogDir string) (*Store, error) {
	if err := os.MkdirAll(catalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog dir: %w", err)
	}

	dbPath := filepath.Join(catalogDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
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

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScan persists one scan run and all of its task outcomes in a single
// transaction.
func (s *Store) SaveScan(ctx context.Context, scan *dataset.ScanResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO scan_runs (
            run_id, dataset_root, started_at, finished_at,
            task_count, episode_count, failure_count
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		scan.RunID,
		scan.DatasetRoot,
		scan.StartedAt.UTC().Format(time.RFC3339Nano),
		scan.FinishedAt.UTC().Format(time.RFC3339Nano),
		len(scan.Tasks),
		scan.Episodes(),
		scan.Failures(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, task := range scan.Tasks {
		record := taskToRecord(scan.RunID, task)
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO scan_tasks (
                run_id, name, root, instruction, status, fallback,
                camera_count, episode_count, warning_count, error, duration_ms
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.RunID,
			record.Name,
			record.Root,
			record.Instruction,
			record.Status,
			boolToInt(record.Fallback),
			record.CameraCount,
			record.EpisodeCount,
			record.WarningCount,
			nullableString(record.Error),
			record.DurationMS,
		); err != nil {
			return fmt.Errorf("insert task %s: %w", task.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A non-positive limit
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT id, run_id, dataset_root, started_at, finished_at,
        task_count, episode_count, failure_count
        FROM scan_runs ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run and its task rows.
func (s *Store) GetRun(ctx context.Context, runID string) (*RunRecord, []TaskRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, run_id, dataset_root, started_at, finished_at,
            task_count, episode_count, failure_count
            FROM scan_runs WHERE run_id = ?`,
		runID,
	)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrRunNotFound
		}
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, name, root, instruction, status, fallback,
            camera_count, episode_count, warning_count, error, duration_ms
            FROM scan_tasks WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("list run tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []TaskRecord
	for rows.Next() {
		var (
			task     TaskRecord
			fallback int
			errText  sql.NullString
		)
		if err := rows.Scan(
			&task.ID, &task.RunID, &task.Name, &task.Root, &task.Instruction,
			&task.Status, &fallback, &task.CameraCount, &task.EpisodeCount,
			&task.WarningCount, &errText, &task.DurationMS,
		); err != nil {
			return nil, nil, fmt.Errorf("scan task row: %w", err)
		}
		task.Fallback = fallback != 0
		task.Error = errText.String
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate run tasks: %w", err)
	}
	return &run, tasks, nil
}

// PruneRuns deletes all but the newest keep runs and returns how many were
// removed.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM scan_runs WHERE run_id NOT IN (
            SELECT run_id FROM scan_runs ORDER BY started_at DESC, id DESC LIMIT ?
        )`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned runs: %w", err)
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		run      RunRecord
		started  string
		finished string
	)
	if err := row.Scan(
		&run.ID, &run.RunID, &run.DatasetRoot, &started, &finished,
		&run.TaskCount, &run.EpisodeCount, &run.FailureCount,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scan run row: %w", err)
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return RunRecord{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return RunRecord{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return run, nil
}

func taskToRecord(runID string, task dataset.TaskSummary) TaskRecord {
	record := TaskRecord{
		RunID:       runID,
		Name:        task.Name,
		Root:        task.Root,
		Instruction: task.Instruction,
		DurationMS:  task.Duration.Milliseconds(),
	}
	if task.Err != nil {
		record.Error = task.Err.Error()
	}
	if task.Result != nil {
		record.Status = string(task.Result.Status)
		record.Fallback = task.Result.Fallback
		record.CameraCount = task.Result.Manifest.Count()
		record.EpisodeCount = len(task.Result.Episodes)
		record.WarningCount = len(task.Result.Report.Warnings)
	}
	return record
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
