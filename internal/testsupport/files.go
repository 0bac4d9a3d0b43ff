package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern, creating parent directories as needed. A size
// <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteEpisode creates an episode directory under taskRoot with one metadata
// file and frames frame files per camera digit.
func WriteEpisode(t testing.TB, taskRoot, name string, cameras, frames int) string {
	t.Helper()

	dir := filepath.Join(taskRoot, name)
	WriteFile(t, filepath.Join(dir, "data.json"), 1)
	for cam := 0; cam < cameras; cam++ {
		for idx := 0; idx < frames; idx++ {
			WriteFile(t, filepath.Join(dir, frameName(idx, cam)), 1)
		}
	}
	return dir
}

// WriteTask builds a task directory with the given number of episodes, each
// holding the same camera and frame counts.
func WriteTask(t testing.TB, datasetRoot, name string, episodes, cameras, frames int) string {
	t.Helper()

	root := filepath.Join(datasetRoot, name)
	for e := 1; e <= episodes; e++ {
		WriteEpisode(t, root, "episode_"+itoa(e), cameras, frames)
	}
	return root
}

func frameName(idx, cam int) string {
	return "frame_" + pad3(idx) + "_" + itoa(cam) + ".jpg"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func pad3(n int) string {
	s := itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
