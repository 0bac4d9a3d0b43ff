// Package watch re-runs dataset scans when the capture tree changes. It
// watches the dataset root and its task directories, coalescing bursts of
// filesystem events into a single rescan after a quiet period.
package watch
