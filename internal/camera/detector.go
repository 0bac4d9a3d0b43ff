package camera

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"robonorm/internal/services"
)

// Options configures camera channel detection.
type Options struct {
	// Enabled toggles detection; disabled detection always yields the single
	// implicit channel.
	Enabled bool
	// FilePattern is the glob a base name must match to join the sample.
	FilePattern string
	// Extensions are the image extensions the trailing-digit rule applies to.
	Extensions []string
	// LabelTemplate names channels; {index} is replaced with the digit.
	LabelTemplate string
	// MaxCameras caps how many channels are admitted into the manifest.
	MaxCameras int
	// SampleSize bounds how many filenames are inspected.
	SampleSize int
}

// Result is the outcome of one detection pass.
type Result struct {
	Manifest Manifest
	// Degraded is set when detection was requested but fell back to a single
	// channel, or when digits beyond the cap were rejected.
	Degraded bool
	Reason   string
	// RejectedDigits lists observed digits excluded by MaxCameras.
	RejectedDigits []int
	// SampleSize is the number of filenames actually inspected.
	SampleSize int
}

// Detector infers the camera manifest for one task.
type Detector struct {
	opts Options
}

// NewDetector constructs a detector. Options are copied; a detector is safe
// for concurrent use across tasks.
func NewDetector(opts Options) *Detector {
	opts.Extensions = append([]string(nil), opts.Extensions...)
	return &Detector{opts: opts}
}

// Detect derives the camera manifest from a filename sample. It never fails:
// inconclusive input degrades to the single implicit channel.
func (d *Detector) Detect(sample []string) Result {
	result := Result{SampleSize: len(sample)}

	if !d.opts.Enabled {
		result.Manifest = SingleChannel(d.opts.LabelTemplate)
		return result
	}

	observed := make(map[int]struct{})
	for _, name := range sample {
		if digit, ok := TrailingIndex(name, d.opts.Extensions); ok {
			observed[digit] = struct{}{}
		}
	}

	admitted := make([]int, 0, len(observed))
	rejected := make([]int, 0)
	digits := make([]int, 0, len(observed))
	for digit := range observed {
		digits = append(digits, digit)
	}
	sort.Ints(digits)
	for _, digit := range digits {
		if len(admitted) >= d.opts.MaxCameras {
			rejected = append(rejected, digit)
			continue
		}
		admitted = append(admitted, digit)
	}

	if len(admitted) < 2 {
		result.Manifest = SingleChannel(d.opts.LabelTemplate)
		result.Degraded = true
		if len(observed) == 0 {
			result.Reason = "no filename matched the trailing-digit pattern"
		} else {
			result.Reason = "fewer than two distinct camera digits observed"
		}
		return result
	}

	result.Manifest = NewManifest(admitted, d.opts.LabelTemplate)
	if len(rejected) > 0 {
		result.Degraded = true
		result.RejectedDigits = rejected
		result.Reason = fmt.Sprintf("%d camera digit(s) beyond max_cameras=%d rejected", len(rejected), d.opts.MaxCameras)
	}
	return result
}

// SampleFilenames gathers up to limit base names matching pattern using a
// breadth-first walk from root. The limit keeps detection cost independent of
// dataset size.
func SampleFilenames(ctx context.Context, root, pattern string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	if _, err := os.Stat(root); err != nil {
		return nil, services.Wrap(services.ErrAccess, "camera", "sample", "task root unavailable", err)
	}

	// Both sides are lowercased so the glob matches case-insensitively.
	pattern = strings.ToLower(pattern)
	sample := make([]string, 0, limit)
	queue := []string{root}
	for len(queue) > 0 && len(sample) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			// Unreadable subdirectories degrade the sample, not the scan.
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				queue = append(queue, filepath.Join(dir, entry.Name()))
				continue
			}
			name := entry.Name()
			if matched, _ := path.Match(pattern, strings.ToLower(name)); !matched {
				continue
			}
			sample = append(sample, name)
			if len(sample) >= limit {
				break
			}
		}
	}
	return sample, nil
}

// TrailingIndex extracts the camera digit from a frame filename: the single
// digit immediately before one of the given extensions, compared
// case-insensitively. It returns false when the name carries no digit there.
func TrailingIndex(name string, extensions []string) (int, bool) {
	lower := strings.ToLower(filepath.Base(name))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if ext == "" || !strings.HasSuffix(lower, ext) {
			continue
		}
		stem := lower[:len(lower)-len(ext)]
		if stem == "" {
			return 0, false
		}
		c := stem[len(stem)-1]
		if c >= '0' && c <= '9' {
			return int(c - '0'), true
		}
		return 0, false
	}
	return 0, false
}
