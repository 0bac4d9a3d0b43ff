package frames

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"robonorm/internal/camera"
	"robonorm/internal/naturalsort"
	"robonorm/internal/services"
)

// Options configures frame collection.
type Options struct {
	// Extensions are the accepted frame file extensions.
	Extensions []string
}

// Result holds one episode's collected frame sequences.
type Result struct {
	// ByCamera maps camera index to the naturally ordered frame paths. The
	// slice position is the frame_idx.
	ByCamera map[int][]string
	// Dropped lists files whose trailing digit had no manifest entry.
	Dropped []string
	// Mismatch is set when camera channels ended up with differing counts.
	Mismatch bool
}

// Counts returns the per-camera frame counts in manifest index order.
func (r Result) Counts(manifest camera.Manifest) map[int]int {
	counts := make(map[int]int, manifest.Count())
	for _, ch := range manifest.Channels() {
		counts[ch.Index] = len(r.ByCamera[ch.Index])
	}
	return counts
}

// Total returns the number of collected frames across all cameras.
func (r Result) Total() int {
	total := 0
	for _, paths := range r.ByCamera {
		total += len(paths)
	}
	return total
}

// Collector enumerates and classifies an episode's frame files.
type Collector struct {
	opts Options
}

// NewCollector constructs a collector. Options are copied.
func NewCollector(opts Options) *Collector {
	opts.Extensions = append([]string(nil), opts.Extensions...)
	return &Collector{opts: opts}
}

// Collect walks root without a depth bound and groups every accepted image by
// camera channel. Only an unreadable root is an error.
func (c *Collector) Collect(ctx context.Context, root string, manifest camera.Manifest) (Result, error) {
	result := Result{ByCamera: make(map[int][]string, manifest.Count())}

	if _, err := os.ReadDir(root); err != nil {
		return result, services.Wrap(services.ErrAccess, "frames", "collect", "image root unreadable", err)
	}

	stack := []string{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				stack = append(stack, full)
				continue
			}
			if !hasExtension(entry.Name(), c.opts.Extensions) {
				continue
			}
			digit, ok := camera.TrailingIndex(entry.Name(), c.opts.Extensions)
			if !ok {
				// No trailing digit: on a single-channel manifest every
				// accepted image belongs to the implicit camera.
				if manifest.Count() == 1 {
					ch := manifest.Channels()[0]
					result.ByCamera[ch.Index] = append(result.ByCamera[ch.Index], full)
				} else {
					result.Dropped = append(result.Dropped, full)
				}
				continue
			}
			ch, mapped := manifest.ChannelForDigit(digit)
			if !mapped {
				if manifest.Count() == 1 {
					ch = manifest.Channels()[0]
				} else {
					result.Dropped = append(result.Dropped, full)
					continue
				}
			}
			result.ByCamera[ch.Index] = append(result.ByCamera[ch.Index], full)
		}
	}

	for idx := range result.ByCamera {
		naturalsort.SortKeyed(result.ByCamera[idx], filepath.Base)
	}
	naturalsort.SortKeyed(result.Dropped, filepath.Base)

	result.Mismatch = countsDiffer(result, manifest)
	return result, nil
}

// countsDiffer reports whether channels collected unequal frame counts.
// Channels are not required to have equal length; the caller records this as
// a warning and emits the episode anyway.
func countsDiffer(result Result, manifest camera.Manifest) bool {
	if manifest.Count() < 2 {
		return false
	}
	first := -1
	for _, ch := range manifest.Channels() {
		n := len(result.ByCamera[ch.Index])
		if first == -1 {
			first = n
			continue
		}
		if n != first {
			return true
		}
	}
	return false
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
