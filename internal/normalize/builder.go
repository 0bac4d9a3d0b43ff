package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"robonorm/internal/camera"
	"robonorm/internal/discover"
	"robonorm/internal/frames"
	"robonorm/internal/logging"
	"robonorm/internal/metafile"
	"robonorm/internal/services"
)

// Options configures a Builder. Everything is passed explicitly so concurrent
// tasks never share mutable pattern state.
type Options struct {
	Detection camera.Options
	Discovery discover.Options
	Frames    frames.Options
	// ImageSubdir optionally narrows the frame search to a sub-path of the
	// metadata file's directory.
	ImageSubdir string
	// EpisodeWorkers bounds concurrent episode processing within the task.
	EpisodeWorkers int
}

// TaskResult is the normalized output of one task.
type TaskResult struct {
	TaskRoot string
	Status   Status
	Manifest camera.Manifest
	// Fallback is set when the flat pseudo-episode mode was used.
	Fallback bool
	Episodes []EpisodeRecord
	Report   Report
}

// Builder runs the normalization pipeline for single tasks.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder constructs a builder. A nil logger disables logging.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	if opts.EpisodeWorkers <= 0 {
		opts.EpisodeWorkers = 1
	}
	return &Builder{opts: opts, logger: logging.NewComponentLogger(logger, "normalize")}
}

// episodeJob carries one episode candidate into the worker pool. Structured
// episodes arrive with dir set; fallback pseudo-episodes arrive with the
// metadata path preselected.
type episodeJob struct {
	rawName      string
	dir          string
	metadataPath string
}

type episodeOutcome struct {
	record   *EpisodeRecord
	warnings []Warning
}

// Normalize runs the full pipeline for one task root. Only task-root access
// failures and cancellation return an error; every other anomaly lands in the
// report.
func (b *Builder) Normalize(ctx context.Context, taskRoot string) (*TaskResult, error) {
	result := &TaskResult{
		TaskRoot: taskRoot,
		Status:   StatusInit,
		Report:   Report{TaskRoot: taskRoot},
	}
	logger := logging.WithContext(ctx, b.logger)

	if _, err := os.Stat(taskRoot); err != nil {
		result.Status = StatusFailed
		return result, services.Wrap(services.ErrAccess, "normalize", "stat", "task root unavailable", err)
	}

	sample, err := camera.SampleFilenames(ctx, taskRoot, b.opts.Detection.FilePattern, b.opts.Detection.SampleSize)
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}
	detection := camera.NewDetector(b.opts.Detection).Detect(sample)
	result.Manifest = detection.Manifest
	if detection.Degraded {
		result.Report.Add(WarnDegradedDetection, "", detection.Reason)
	}
	result.Status = StatusCameraDetected
	logger.Debug("camera manifest built",
		logging.Int("cameras", detection.Manifest.Count()),
		logging.Int("sample_size", detection.SampleSize),
		logging.Bool("degraded", detection.Degraded),
	)

	candidates, err := discover.NewLocator(b.opts.Discovery).Locate(ctx, taskRoot)
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}
	result.Status = StatusEpisodesLocated

	jobs, err := b.buildJobs(ctx, result, candidates)
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}
	logger.Debug("episode candidates located",
		logging.Int("episodes", len(jobs)),
		logging.Bool("fallback", result.Fallback),
	)

	outcomes := b.processEpisodes(ctx, jobs, result.Manifest)
	if err := ctx.Err(); err != nil {
		// In-flight records are discarded, never partially published.
		result.Status = StatusFailed
		result.Episodes = nil
		return result, err
	}
	result.Status = StatusRecordsSelected

	for _, outcome := range outcomes {
		result.Report.Warnings = append(result.Report.Warnings, outcome.warnings...)
		if outcome.record == nil {
			continue
		}
		record := *outcome.record
		record.EpisodeID = len(result.Episodes)
		result.Episodes = append(result.Episodes, record)
	}
	result.Status = StatusFramesCollected
	logger.Debug("frames collected",
		logging.Int("episodes", len(result.Episodes)),
	)

	result.Status = StatusNormalized
	logger.Info("task normalized",
		logging.String(logging.FieldEventType, "task_normalized"),
		logging.Int("episodes", len(result.Episodes)),
		logging.Int("cameras", result.Manifest.Count()),
		logging.Int("warnings", len(result.Report.Warnings)),
		logging.Bool("fallback", result.Fallback),
	)
	return result, nil
}

// buildJobs turns located candidates into episode jobs, switching to the flat
// fallback when the locator found nothing.
func (b *Builder) buildJobs(ctx context.Context, result *TaskResult, candidates []discover.Candidate) ([]episodeJob, error) {
	if len(candidates) > 0 {
		result.Status = StatusStructured
		ordered := discover.Order(candidates)
		jobs := make([]episodeJob, 0, len(ordered))
		for _, cand := range ordered {
			jobs = append(jobs, episodeJob{rawName: cand.RawName, dir: cand.Path})
		}
		return jobs, nil
	}

	result.Fallback = true
	result.Status = StatusFallbackFlat
	result.Report.Add(WarnNoStructuredEpisodes, "", "no pattern-matching episode directories; flat metadata scan used")

	files, err := discover.FlatMetadataScan(ctx, result.TaskRoot, b.opts.Discovery.MetadataExtensions)
	if err != nil {
		return nil, err
	}
	jobs := make([]episodeJob, 0, len(files))
	for _, file := range files {
		base := filepath.Base(file)
		jobs = append(jobs, episodeJob{
			rawName:      strings.TrimSuffix(base, filepath.Ext(base)),
			metadataPath: file,
		})
	}
	return jobs, nil
}

// processEpisodes runs the jobs on a bounded pool. Each slot is written by
// exactly one worker; results are reassembled in job order afterwards, so
// scheduling cannot change the published sequence.
func (b *Builder) processEpisodes(ctx context.Context, jobs []episodeJob, manifest camera.Manifest) []episodeOutcome {
	outcomes := make([]episodeOutcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	workers := b.opts.EpisodeWorkers
	if workers > len(jobs) {
		workers = len(jobs)
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
				outcomes[idx] = b.processEpisode(ctx, jobs[idx], manifest)
			}
		}()
	}
	for idx := range jobs {
		if ctx.Err() != nil {
			break
		}
		indexes <- idx
	}
	close(indexes)
	wg.Wait()
	return outcomes
}

func (b *Builder) processEpisode(ctx context.Context, job episodeJob, manifest camera.Manifest) episodeOutcome {
	var outcome episodeOutcome

	metadataPath := job.metadataPath
	if metadataPath == "" {
		candidates, err := b.metadataCandidates(ctx, job.dir)
		if err != nil {
			outcome.warnings = append(outcome.warnings, Warning{
				Kind: WarnInvalidEpisode, Episode: job.rawName,
				Detail: fmt.Sprintf("metadata search failed: %v", err),
			})
			return outcome
		}
		metadataPath, err = metafile.Select(candidates)
		if err != nil {
			if errors.Is(err, metafile.ErrNoCandidates) {
				outcome.warnings = append(outcome.warnings, Warning{
					Kind: WarnInvalidEpisode, Episode: job.rawName,
					Detail: "no selectable metadata file",
				})
			}
			return outcome
		}
	}

	imageRoot := filepath.Dir(metadataPath)
	if b.opts.ImageSubdir != "" {
		sub := filepath.Join(imageRoot, b.opts.ImageSubdir)
		if info, err := os.Stat(sub); err == nil && info.IsDir() {
			imageRoot = sub
		}
	}

	collected, err := frames.NewCollector(b.opts.Frames).Collect(ctx, imageRoot, manifest)
	if err != nil {
		if ctx.Err() != nil {
			return outcome
		}
		outcome.warnings = append(outcome.warnings, Warning{
			Kind: WarnInvalidEpisode, Episode: job.rawName,
			Detail: fmt.Sprintf("frame collection failed: %v", err),
		})
		return outcome
	}

	if len(collected.Dropped) > 0 {
		outcome.warnings = append(outcome.warnings, Warning{
			Kind: WarnFrameWithoutCamera, Episode: job.rawName,
			Detail: fmt.Sprintf("%d frame(s) without a manifest camera discarded, first %s",
				len(collected.Dropped), filepath.Base(collected.Dropped[0])),
		})
	}
	if collected.Mismatch {
		outcome.warnings = append(outcome.warnings, Warning{
			Kind: WarnFrameCameraMismatch, Episode: job.rawName,
			Detail: formatCounts(collected, manifest),
		})
	}
	if collected.Total() == 0 {
		outcome.warnings = append(outcome.warnings, Warning{
			Kind: WarnInvalidEpisode, Episode: job.rawName,
			Detail: "no frames collected for any camera",
		})
		return outcome
	}

	outcome.record = &EpisodeRecord{
		RawName:             job.rawName,
		PrimaryMetadataPath: metadataPath,
		Frames:              collected.ByCamera,
	}
	return outcome
}

// metadataCandidates lists metadata files directly inside dir, falling back
// to a bounded recursive search when the directory level itself is empty.
func (b *Builder) metadataCandidates(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var direct []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if hasMetadataExtension(entry.Name(), b.opts.Discovery.MetadataExtensions) {
			direct = append(direct, filepath.Join(dir, entry.Name()))
		}
	}
	if len(direct) > 0 {
		sort.Strings(direct)
		return direct, nil
	}

	type walkItem struct {
		path  string
		depth int
	}
	var nested []string
	queue := []walkItem{{path: dir, depth: 0}}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := queue[0]
		queue = queue[1:]
		entries, err := os.ReadDir(item.path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			full := filepath.Join(item.path, entry.Name())
			if entry.IsDir() {
				if item.depth+1 <= b.opts.Discovery.MaxDepth {
					queue = append(queue, walkItem{path: full, depth: item.depth + 1})
				}
				continue
			}
			if hasMetadataExtension(entry.Name(), b.opts.Discovery.MetadataExtensions) {
				nested = append(nested, full)
			}
		}
	}
	sort.Strings(nested)
	return nested, nil
}

func formatCounts(collected frames.Result, manifest camera.Manifest) string {
	counts := collected.Counts(manifest)
	parts := make([]string, 0, manifest.Count())
	for _, ch := range manifest.Channels() {
		parts = append(parts, fmt.Sprintf("%s=%d", ch.Label, counts[ch.Index]))
	}
	return "unequal frame counts: " + strings.Join(parts, " ")
}

func hasMetadataExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
