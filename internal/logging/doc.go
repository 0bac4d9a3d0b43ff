// Package logging assembles the structured slog loggers used across robonorm.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes attribute helpers plus standardized field names so scan components
// emit data with a consistent shape. Context-aware helpers tag log lines with
// the task and scan run in flight. A no-op logger is provided for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
