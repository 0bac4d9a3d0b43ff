package discover

import (
	"context"
	"os"
	"path/filepath"

	"robonorm/internal/naturalsort"
	"robonorm/internal/services"
)

// FlatMetadataScan recursively collects every metadata file under root with
// no depth bound, in natural filename order. It backs the fallback mode when
// no structured episode directory was recognized, so an unknown layout still
// yields a non-empty pseudo-episode sequence.
func FlatMetadataScan(ctx context.Context, root string, extensions []string) ([]string, error) {
	if _, err := os.ReadDir(root); err != nil {
		return nil, services.Wrap(services.ErrAccess, "discover", "flat scan", "task root unreadable", err)
	}

	var files []string
	stack := []string{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
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
			if hasExtension(entry.Name(), extensions) {
				files = append(files, full)
			}
		}
	}

	naturalsort.SortKeyed(files, filepath.Base)
	return files, nil
}
