// Package naturalsort provides a total-order string comparator that treats
// embedded digit runs as numeric values.
//
// Capture tooling pads frame counters inconsistently, so plain lexicographic
// ordering puts frame_000010 before frame_000002. The comparator tokenizes a
// string into alternating non-digit/digit runs and compares digit runs as
// integers, which restores the intended sequence regardless of zero padding.
//
// Compare is a pure function and safe for concurrent use.
package naturalsort
