package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"robonorm/internal/logging"
	"robonorm/internal/naturalsort"
	"robonorm/internal/normalize"
	"robonorm/internal/services"
)

// Options configures a dataset scan.
type Options struct {
	// Tasks pins the scan to specific task directory names. Empty means every
	// immediate subdirectory of the dataset root.
	Tasks []string
	// Workers bounds how many tasks normalize concurrently.
	Workers int
	// TaskTimeout caps the wall time of a single task; zero disables it.
	TaskTimeout time.Duration
	// Builder configures per-task normalization.
	Builder normalize.Options
}

// TaskSummary is the outcome of one task within a scan.
type TaskSummary struct {
	Name        string
	Root        string
	Instruction string
	Result      *normalize.TaskResult
	Err         error
	Duration    time.Duration
}

// Failed reports whether the task ended in an error.
func (s TaskSummary) Failed() bool {
	return s.Err != nil
}

// ScanResult is the outcome of one dataset scan run.
type ScanResult struct {
	RunID       string
	DatasetRoot string
	StartedAt   time.Time
	FinishedAt  time.Time
	Tasks       []TaskSummary
}

// Episodes returns the total episode count across all succeeded tasks.
func (r ScanResult) Episodes() int {
	total := 0
	for _, task := range r.Tasks {
		if task.Result != nil {
			total += len(task.Result.Episodes)
		}
	}
	return total
}

// Failures returns how many tasks ended in an error.
func (r ScanResult) Failures() int {
	n := 0
	for _, task := range r.Tasks {
		if task.Failed() {
			n++
		}
	}
	return n
}

// Scanner normalizes every task under a dataset root.
type Scanner struct {
	opts    Options
	builder *normalize.Builder
	logger  *slog.Logger
}

// NewScanner constructs a scanner. A nil logger disables logging.
func NewScanner(opts Options, logger *slog.Logger) *Scanner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Scanner{
		opts:    opts,
		builder: normalize.NewBuilder(opts.Builder, logger),
		logger:  logging.NewComponentLogger(logger, "dataset"),
	}
}

// Scan discovers the task directories and normalizes each on a bounded pool.
// One task failing never aborts the others; its summary carries the error.
func (s *Scanner) Scan(ctx context.Context, datasetRoot string) (*ScanResult, error) {
	if _, err := os.Stat(datasetRoot); err != nil {
		return nil, services.Wrap(services.ErrAccess, "dataset", "stat", "dataset root unavailable", err)
	}

	result := &ScanResult{
		RunID:       uuid.New().String(),
		DatasetRoot: datasetRoot,
		StartedAt:   time.Now().UTC(),
	}
	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, s.logger)

	names, err := s.taskNames(datasetRoot)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset scan started",
		logging.String(logging.FieldEventType, "scan_started"),
		logging.String("dataset_root", datasetRoot),
		logging.Int("tasks", len(names)),
	)

	result.Tasks = s.runTasks(ctx, datasetRoot, names)
	result.FinishedAt = time.Now().UTC()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("dataset scan finished",
		logging.String(logging.FieldEventType, "scan_finished"),
		logging.Int("tasks", len(result.Tasks)),
		logging.Int("episodes", result.Episodes()),
		logging.Int("failures", result.Failures()),
		logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

// taskNames resolves the task list in its canonical order. Explicitly pinned
// names are kept even when the directory is missing so the failure surfaces
// in the task summary instead of silently narrowing the scan.
func (s *Scanner) taskNames(datasetRoot string) ([]string, error) {
	if len(s.opts.Tasks) > 0 {
		names := append([]string(nil), s.opts.Tasks...)
		naturalsort.Sort(names)
		return names, nil
	}

	entries, err := os.ReadDir(datasetRoot)
	if err != nil {
		return nil, services.Wrap(services.ErrAccess, "dataset", "list", "cannot list dataset root", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	naturalsort.Sort(names)
	return names, nil
}

func (s *Scanner) runTasks(ctx context.Context, datasetRoot string, names []string) []TaskSummary {
	summaries := make([]TaskSummary, len(names))

	workers := s.opts.Workers
	if workers > len(names) {
		workers = len(names)
	}
	if workers == 0 {
		return summaries
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range indexes {
				if ctx.Err() != nil {
					return
				}
				summaries[idx] = s.runTask(ctx, datasetRoot, names[idx])
			}
		}()
	}
	for idx := range names {
		if ctx.Err() != nil {
			break
		}
		indexes <- idx
	}
	close(indexes)
	wg.Wait()
	return summaries
}

func (s *Scanner) runTask(ctx context.Context, datasetRoot, name string) TaskSummary {
	// Pinned entries may be absolute paths; everything else is a directory
	// name under the dataset root.
	root := name
	if !filepath.IsAbs(name) {
		root = filepath.Join(datasetRoot, name)
	} else {
		name = filepath.Base(name)
	}
	summary := TaskSummary{
		Name:        name,
		Root:        root,
		Instruction: DeriveInstruction(name),
	}

	taskCtx := services.WithTask(ctx, name)
	if s.opts.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, s.opts.TaskTimeout)
		defer cancel()
	}
	logger := logging.WithContext(taskCtx, s.logger)

	started := time.Now()
	result, err := s.builder.Normalize(taskCtx, summary.Root)
	summary.Duration = time.Since(started)
	summary.Result = result

	if err != nil {
		if taskCtx.Err() != nil && ctx.Err() == nil {
			err = services.Wrap(services.ErrTimeout, "dataset", "normalize", "task deadline exceeded", err)
		}
		summary.Err = err
		logger.Error("task normalization failed",
			logging.String(logging.FieldEventType, "task_failed"),
			logging.Error(err),
			logging.Duration("elapsed", summary.Duration),
		)
		return summary
	}

	logger.Info("task normalization finished",
		logging.String(logging.FieldEventType, "task_finished"),
		logging.Int("episodes", len(result.Episodes)),
		logging.Int("warnings", len(result.Report.Warnings)),
		logging.Duration("elapsed", summary.Duration),
	)
	return summary
}
