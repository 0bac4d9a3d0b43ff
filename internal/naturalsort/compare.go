package naturalsort

import (
	"sort"
	"strings"
)

// Compare orders a and b naturally: digit runs are compared by numeric value,
// non-digit runs byte-wise. Strings that differ only in zero padding fall back
// to plain lexicographic comparison so the order stays total and stable.
func Compare(a, b string) int {
	restA, restB := a, b
	for restA != "" && restB != "" {
		runA, numA := nextRun(restA)
		runB, numB := nextRun(restB)

		switch {
		case numA && numB:
			if c := compareNumeric(runA, runB); c != 0 {
				return c
			}
		case numA != numB:
			// A digit run sorts against a non-digit run byte-wise.
			if c := strings.Compare(runA, runB); c != 0 {
				return c
			}
		default:
			if c := strings.Compare(runA, runB); c != 0 {
				return c
			}
		}
		restA = restA[len(runA):]
		restB = restB[len(runB):]
	}
	if len(restA) != len(restB) {
		if restA == "" {
			return -1
		}
		return 1
	}
	// All runs matched numerically; differing zero padding still needs a
	// deterministic answer.
	return strings.Compare(a, b)
}

// Less reports whether a orders before b naturally.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort orders values in place using natural comparison.
func Sort(values []string) {
	sort.Slice(values, func(i, j int) bool {
		return Compare(values[i], values[j]) < 0
	})
}

// SortKeyed orders values in place by the natural order of key(value), using
// the value itself as the final tie-break so the result is deterministic.
func SortKeyed(values []string, key func(string) string) {
	sort.Slice(values, func(i, j int) bool {
		if c := Compare(key(values[i]), key(values[j])); c != 0 {
			return c < 0
		}
		return values[i] < values[j]
	})
}

// nextRun returns the leading run of s, which is either entirely digits or
// entirely non-digits, and whether it is numeric.
func nextRun(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	numeric := isDigit(s[0])
	end := 1
	for end < len(s) && isDigit(s[end]) == numeric {
		end++
	}
	return s[:end], numeric
}

// compareNumeric compares two digit runs by value without converting to an
// integer type, so arbitrarily long counters cannot overflow.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
