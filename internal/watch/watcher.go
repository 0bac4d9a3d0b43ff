package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"robonorm/internal/logging"
)

// Rescan is invoked after the tree has been quiet for the debounce window.
type Rescan func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period required before a rescan fires.
	Debounce time.Duration
}

// Watcher triggers rescans on dataset changes.
type Watcher struct {
	opts   Options
	rescan Rescan
	logger *slog.Logger
}

// New constructs a watcher. A nil logger disables logging.
func New(opts Options, rescan Rescan, logger *slog.Logger) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}
	return &Watcher{
		opts:   opts,
		rescan: rescan,
		logger: logging.NewComponentLogger(logger, "watch"),
	}
}

// Run scans once immediately, then blocks watching datasetRoot until the
// context is cancelled. Rescan errors are logged, not returned, so one bad
// pass never stops the watch loop.
func (w *Watcher) Run(ctx context.Context, datasetRoot string) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = notifier.Close() }()

	if err := notifier.Add(datasetRoot); err != nil {
		return fmt.Errorf("watch %s: %w", datasetRoot, err)
	}
	w.addTaskDirs(notifier, datasetRoot)

	w.logger.Info("watching dataset",
		logging.String("dataset_root", datasetRoot),
		logging.Duration("debounce", w.opts.Debounce),
	)
	w.runRescan(ctx)

	// The timer is armed only while a rescan is pending.
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && filepath.Dir(event.Name) == datasetRoot {
					_ = notifier.Add(event.Name)
				}
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.opts.Debounce)
			pending = true

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))

		case <-timer.C:
			pending = false
			w.runRescan(ctx)
		}
	}
}

func (w *Watcher) runRescan(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	started := time.Now()
	if err := w.rescan(ctx); err != nil {
		w.logger.Error("rescan failed", logging.Error(err))
		return
	}
	w.logger.Info("rescan finished", logging.Duration("elapsed", time.Since(started)))
}

// addTaskDirs registers the immediate subdirectories so episode-level writes
// are observed on platforms without recursive watches.
func (w *Watcher) addTaskDirs(notifier *fsnotify.Watcher, datasetRoot string) {
	entries, err := os.ReadDir(datasetRoot)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := notifier.Add(filepath.Join(datasetRoot, entry.Name())); err != nil {
			w.logger.Warn("cannot watch task directory",
				logging.String("path", entry.Name()),
				logging.Error(err),
			)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}
