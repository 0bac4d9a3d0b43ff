// Package services defines the shared error taxonomy and context plumbing used
// by the scanning components.
//
// Errors carry a sentinel marker (validation, configuration, access, timeout,
// transient) so callers can classify a failure without parsing messages. Wrap
// builds the conventional "component: operation: detail" message while tagging
// it with the marker. Per-file and per-episode anomalies are never expressed as
// errors; those accumulate in a task report instead (see internal/normalize).
//
// The context helpers annotate a context with the task and scan run in flight
// so log lines can be correlated without threading identifiers through every
// call site.
package services
