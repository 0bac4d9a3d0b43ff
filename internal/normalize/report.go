package normalize

import "fmt"

// WarningKind classifies a non-fatal anomaly observed during normalization.
type WarningKind string

const (
	// WarnDegradedDetection reports camera auto-detection falling back to a
	// single channel or rejecting digits beyond the cap.
	WarnDegradedDetection WarningKind = "degraded_detection"
	// WarnNoStructuredEpisodes reports that the locator matched nothing and
	// the flat fallback was used.
	WarnNoStructuredEpisodes WarningKind = "no_structured_episodes"
	// WarnInvalidEpisode reports an episode excluded from the output.
	WarnInvalidEpisode WarningKind = "invalid_episode"
	// WarnFrameCameraMismatch reports unequal frame counts across cameras
	// within one episode.
	WarnFrameCameraMismatch WarningKind = "frame_camera_mismatch"
	// WarnFrameWithoutCamera reports frame files discarded because their
	// digit has no manifest entry.
	WarnFrameWithoutCamera WarningKind = "frame_without_camera"
)

// Warning is one reported anomaly.
type Warning struct {
	Kind WarningKind
	// Episode names the affected episode, empty for task-level warnings.
	Episode string
	Detail  string
}

func (w Warning) String() string {
	if w.Episode == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Episode, w.Detail)
}

// Report collects every warning raised while normalizing one task.
type Report struct {
	TaskRoot string
	Warnings []Warning
}

// Add appends a warning.
func (r *Report) Add(kind WarningKind, episode, detail string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Episode: episode, Detail: detail})
}

// Merge appends all warnings from other, preserving order.
func (r *Report) Merge(other Report) {
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Count returns how many warnings of the given kind were recorded.
func (r *Report) Count(kind WarningKind) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Has reports whether any warning of the given kind was recorded.
func (r *Report) Has(kind WarningKind) bool {
	return r.Count(kind) > 0
}
