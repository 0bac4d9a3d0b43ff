package discover

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"robonorm/internal/services"
)

// Candidate is one discovered episode directory.
type Candidate struct {
	Path    string
	RawName string
	// NumericID is the id captured from the directory name. HasID is false
	// when the captured group did not parse; such candidates sort last.
	NumericID int64
	HasID     bool
}

// Options configures episode directory discovery.
type Options struct {
	// Patterns are the recognized episode name patterns, each with one
	// capture group for the numeric id.
	Patterns []*regexp.Regexp
	// MaxDepth bounds the walk below the task root. It caps worst-case scan
	// cost on pathological trees, not realistic nesting.
	MaxDepth int
	// MetadataExtensions mark the files that qualify a directory.
	MetadataExtensions []string
}

// Locator discovers episode directory candidates.
type Locator struct {
	opts Options
}

// NewLocator constructs a locator. Options are copied so concurrent tasks
// cannot share mutable pattern state.
func NewLocator(opts Options) *Locator {
	opts.Patterns = append([]*regexp.Regexp(nil), opts.Patterns...)
	opts.MetadataExtensions = append([]string(nil), opts.MetadataExtensions...)
	return &Locator{opts: opts}
}

type walkItem struct {
	path  string
	depth int
}

// Locate returns the unordered candidate set under root. An empty result
// signals that the caller should switch to the flat fallback. Only a failure
// to read the root itself is an error; unreadable subdirectories are skipped.
func (l *Locator) Locate(ctx context.Context, root string) ([]Candidate, error) {
	if _, err := os.ReadDir(root); err != nil {
		return nil, services.Wrap(services.ErrAccess, "discover", "locate", "task root unreadable", err)
	}

	var candidates []Candidate
	queue := []walkItem{{path: root, depth: 0}}
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

		hasMetadata := false
		for _, entry := range entries {
			if entry.IsDir() {
				if item.depth+1 <= l.opts.MaxDepth {
					queue = append(queue, walkItem{path: filepath.Join(item.path, entry.Name()), depth: item.depth + 1})
				}
				continue
			}
			if hasExtension(entry.Name(), l.opts.MetadataExtensions) {
				hasMetadata = true
			}
		}

		// The task root itself is never a candidate.
		if item.depth == 0 || !hasMetadata {
			continue
		}
		name := filepath.Base(item.path)
		if id, hasID, matched := matchEpisodeName(name, l.opts.Patterns); matched {
			candidates = append(candidates, Candidate{
				Path:      item.path,
				RawName:   name,
				NumericID: id,
				HasID:     hasID,
			})
		}
	}
	return candidates, nil
}

// matchEpisodeName tries each pattern in order and returns the parsed id of
// the first match. hasID is false when the captured group is not an integer.
func matchEpisodeName(name string, patterns []*regexp.Regexp) (id int64, hasID, matched bool) {
	for _, re := range patterns {
		groups := re.FindStringSubmatch(name)
		if groups == nil {
			continue
		}
		if len(groups) > 1 {
			if parsed, err := strconv.ParseInt(groups[1], 10, 64); err == nil {
				return parsed, true, true
			}
		}
		return 0, false, true
	}
	return 0, false, false
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
