package normalize

// EpisodeRecord is one fully validated, write-once episode. Downstream
// consumers hold read-only references; nothing mutates a record after the
// builder publishes it.
type EpisodeRecord struct {
	// EpisodeID is the position in the final canonical order.
	EpisodeID int
	// RawName is the episode directory name, or the metadata base name in
	// fallback mode.
	RawName string
	// PrimaryMetadataPath is the single canonical metadata file.
	PrimaryMetadataPath string
	// Frames maps camera index to the ordered frame paths; the slice
	// position is frame_idx, dense from 0 per camera.
	Frames map[int][]string
}

// FrameCount returns the number of frames collected for one camera.
func (e EpisodeRecord) FrameCount(cameraIndex int) int {
	return len(e.Frames[cameraIndex])
}

// TotalFrames returns the frame count across all cameras.
func (e EpisodeRecord) TotalFrames() int {
	total := 0
	for _, paths := range e.Frames {
		total += len(paths)
	}
	return total
}

// Cameras returns the camera indexes that collected at least one frame, in
// ascending order.
func (e EpisodeRecord) Cameras() []int {
	indexes := make([]int, 0, len(e.Frames))
	for idx, paths := range e.Frames {
		if len(paths) > 0 {
			indexes = append(indexes, idx)
		}
	}
	for i := 1; i < len(indexes); i++ {
		for j := i; j > 0 && indexes[j-1] > indexes[j]; j-- {
			indexes[j-1], indexes[j] = indexes[j], indexes[j-1]
		}
	}
	return indexes
}
