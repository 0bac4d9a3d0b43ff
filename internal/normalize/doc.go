// Package normalize composes camera detection, episode discovery, metadata
// selection, and frame collection into validated episode records for one
// task.
//
// The builder computes the camera manifest once, locates and orders episode
// candidates, then processes each episode on a bounded worker pool. Every
// record is published only after it is fully built and valid: a primary
// metadata file was selected and at least one frame was collected for at
// least one camera. Invalid episodes are dropped and reported, never emitted
// partially populated. The published sequence is reordered canonically before
// any consumer sees it, so worker scheduling cannot change the output.
//
// When no structured episode directory is recognized, the builder switches to
// a flat fallback: every metadata file under the task root becomes one
// pseudo-episode in natural filename order. Per-file and per-episode
// anomalies accumulate in the task report; only a task-root access failure
// aborts the task.
package normalize
