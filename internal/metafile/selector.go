package metafile

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoCandidates reports that an episode offered no metadata file at all.
// Callers drop the episode and record an invalid-episode warning; selection
// failure never aborts the surrounding task.
var ErrNoCandidates = errors.New("no metadata candidates")

// Select picks the primary metadata file from an episode's candidate set.
// Exactly one path is returned for any non-empty input.
func Select(candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", ErrNoCandidates
	case 1:
		return candidates[0], nil
	}

	if match := firstByToken(candidates, "data"); match != "" {
		return match, nil
	}
	if match := firstByToken(candidates, "episode"); match != "" {
		return match, nil
	}

	shortest := append([]string(nil), candidates...)
	sort.Slice(shortest, func(i, j int) bool {
		a, b := filepath.Base(shortest[i]), filepath.Base(shortest[j])
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
	return shortest[0], nil
}

// firstByToken returns the alphabetically first candidate whose base name
// contains token, or "" when none does. Alphabetical choice keeps the
// selection independent of input order.
func firstByToken(candidates []string, token string) string {
	best := ""
	for _, candidate := range candidates {
		if !strings.Contains(strings.ToLower(filepath.Base(candidate)), token) {
			continue
		}
		if best == "" || filepath.Base(candidate) < filepath.Base(best) {
			best = candidate
		}
	}
	return best
}
