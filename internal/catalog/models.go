package catalog

import "time"

// RunRecord is one persisted scan run.
type RunRecord struct {
	ID           int64
	RunID        string
	DatasetRoot  string
	StartedAt    time.Time
	FinishedAt   time.Time
	TaskCount    int
	EpisodeCount int
	FailureCount int
}

// Duration returns the wall time of the run.
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// TaskRecord is one persisted task outcome within a run.
type TaskRecord struct {
	ID           int64
	RunID        string
	Name         string
	Root         string
	Instruction  string
	Status       string
	Fallback     bool
	CameraCount  int
	EpisodeCount int
	WarningCount int
	Error        string
	DurationMS   int64
}

// Failed reports whether the task ended in an error.
func (t TaskRecord) Failed() bool {
	return t.Error != ""
}
