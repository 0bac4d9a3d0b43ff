// Package dataset scans a dataset root containing multiple task capture
// directories. It discovers tasks, derives a human-readable instruction for
// each, and normalizes every task on a bounded worker pool while keeping the
// published task order deterministic.
package dataset
