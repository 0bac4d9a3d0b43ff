package normalize

// Status tracks the per-task normalization lifecycle.
type Status string

const (
	StatusInit            Status = "init"
	StatusCameraDetected  Status = "camera_detected"
	StatusEpisodesLocated Status = "episodes_located"
	StatusStructured      Status = "structured"
	StatusFallbackFlat    Status = "fallback_flat"
	StatusRecordsSelected Status = "records_selected"
	StatusFramesCollected Status = "frames_collected"
	StatusNormalized      Status = "normalized"
	StatusFailed          Status = "failed"
)

// Terminal reports whether the status ends the task lifecycle.
func (s Status) Terminal() bool {
	return s == StatusNormalized || s == StatusFailed
}
