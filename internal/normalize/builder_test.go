package normalize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"testing"

	"robonorm/internal/camera"
	"robonorm/internal/discover"
	"robonorm/internal/frames"
	"robonorm/internal/services"
)

func testOptions() Options {
	return Options{
		Detection: camera.Options{
			Enabled:       true,
			FilePattern:   "*.jp*g",
			Extensions:    []string{".jpg", ".jpeg"},
			LabelTemplate: "color_{index}",
			MaxCameras:    8,
			SampleSize:    20,
		},
		Discovery: discover.Options{
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^episode[_-]?(\d+)$`),
				regexp.MustCompile(`(?i)^ep[_-]?(\d+)$`),
				regexp.MustCompile(`(?i)^(\d+)$`),
			},
			MaxDepth:           3,
			MetadataExtensions: []string{".json"},
		},
		Frames: frames.Options{
			Extensions: []string{".jpg", ".jpeg"},
		},
		EpisodeWorkers: 2,
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writeEpisode creates an episode directory with a metadata file and the
// given frame counts per camera digit.
func writeEpisode(t *testing.T, root, name string, perCamera map[int]int) string {
	t.Helper()
	dir := filepath.Join(root, name)
	writeFile(t, filepath.Join(dir, "data.json"))
	for digit, count := range perCamera {
		for i := 0; i < count; i++ {
			writeFile(t, filepath.Join(dir, "frame_"+itoa3(i)+"_"+string(rune('0'+digit))+".jpg"))
		}
	}
	return dir
}

func itoa3(n int) string {
	digits := []byte{'0', '0', '0'}
	for pos := 2; pos >= 0 && n > 0; pos-- {
		digits[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(digits)
}

func TestNormalizeStructuredTask(t *testing.T) {
	root := t.TempDir()
	writeEpisode(t, root, "episode_2", map[int]int{0: 3, 1: 3})
	writeEpisode(t, root, "episode_10", map[int]int{0: 2, 1: 2})
	writeEpisode(t, root, "episode_1", map[int]int{0: 4, 1: 4})

	builder := NewBuilder(testOptions(), nil)
	result, err := builder.Normalize(context.Background(), root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if result.Status != StatusNormalized {
		t.Fatalf("status = %s, want %s", result.Status, StatusNormalized)
	}
	if result.Fallback {
		t.Fatal("structured task reported as fallback")
	}
	if got := result.Manifest.Count(); got != 2 {
		t.Fatalf("manifest channels = %d, want 2", got)
	}
	if len(result.Episodes) != 3 {
		t.Fatalf("episodes = %d, want 3", len(result.Episodes))
	}
	wantOrder := []string{"episode_1", "episode_2", "episode_10"}
	for i, ep := range result.Episodes {
		if ep.RawName != wantOrder[i] {
			t.Errorf("episode %d raw name = %s, want %s", i, ep.RawName, wantOrder[i])
		}
		if ep.EpisodeID != i {
			t.Errorf("episode %s id = %d, want %d", ep.RawName, ep.EpisodeID, i)
		}
	}
	first := result.Episodes[0]
	if got := first.FrameCount(0); got != 4 {
		t.Errorf("episode_1 camera 0 frames = %d, want 4", got)
	}
	if base := filepath.Base(first.Frames[0][0]); base != "frame_000_0.jpg" {
		t.Errorf("first frame = %s, want frame_000_0.jpg", base)
	}
}

func TestNormalizeFrameCountMismatch(t *testing.T) {
	root := t.TempDir()
	writeEpisode(t, root, "episode_1", map[int]int{0: 3, 1: 2})

	builder := NewBuilder(testOptions(), nil)
	result, err := builder.Normalize(context.Background(), root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(result.Episodes) != 1 {
		t.Fatalf("episodes = %d, want 1 (mismatch must not drop the episode)", len(result.Episodes))
	}
	if !result.Report.Has(WarnFrameCameraMismatch) {
		t.Fatalf("missing %s warning, report: %v", WarnFrameCameraMismatch, result.Report.Warnings)
	}
}

func TestNormalizeFallbackFlat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "session", "run_2.json"))
	writeFile(t, filepath.Join(root, "session", "run_10.json"))
	writeFile(t, filepath.Join(root, "session", "run_2_0.jpg"))

	builder := NewBuilder(testOptions(), nil)
	result, err := builder.Normalize(context.Background(), root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !result.Fallback {
		t.Fatal("expected fallback mode")
	}
	if !result.Report.Has(WarnNoStructuredEpisodes) {
		t.Fatalf("missing %s warning", WarnNoStructuredEpisodes)
	}
	if len(result.Episodes) == 0 {
		t.Fatal("fallback produced no pseudo-episodes")
	}
	if result.Episodes[0].RawName != "run_2" {
		t.Errorf("first pseudo-episode = %s, want run_2 (natural order)", result.Episodes[0].RawName)
	}
}

func TestNormalizeDropsEpisodeWithoutFrames(t *testing.T) {
	root := t.TempDir()
	writeEpisode(t, root, "episode_1", map[int]int{0: 2, 1: 2})
	writeFile(t, filepath.Join(root, "episode_2", "data.json"))
	writeEpisode(t, root, "episode_3", map[int]int{0: 2, 1: 2})

	builder := NewBuilder(testOptions(), nil)
	result, err := builder.Normalize(context.Background(), root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(result.Episodes) != 2 {
		t.Fatalf("episodes = %d, want 2", len(result.Episodes))
	}
	if !result.Report.Has(WarnInvalidEpisode) {
		t.Fatal("missing invalid-episode warning for frameless directory")
	}
	// Identifiers stay contiguous after the drop.
	for i, ep := range result.Episodes {
		if ep.EpisodeID != i {
			t.Errorf("episode %s id = %d, want %d", ep.RawName, ep.EpisodeID, i)
		}
	}
	if result.Episodes[1].RawName != "episode_3" {
		t.Errorf("second episode = %s, want episode_3", result.Episodes[1].RawName)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	root := t.TempDir()
	writeEpisode(t, root, "episode_1", map[int]int{0: 3, 1: 2})
	writeEpisode(t, root, "episode_2", map[int]int{0: 2, 1: 2})

	builder := NewBuilder(testOptions(), nil)
	first, err := builder.Normalize(context.Background(), root)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := builder.Normalize(context.Background(), root)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated runs over an unchanged tree diverged")
	}
}

func TestNormalizeMissingRoot(t *testing.T) {
	builder := NewBuilder(testOptions(), nil)
	result, err := builder.Normalize(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing task root")
	}
	if !errors.Is(err, services.ErrAccess) {
		t.Fatalf("error = %v, want ErrAccess", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", result.Status, StatusFailed)
	}
}
