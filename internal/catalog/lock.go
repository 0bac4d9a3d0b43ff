package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process already holds the scan lock.
var ErrLocked = errors.New("another scan is already running")

// ScanLock serializes catalog writers across processes via a lock file in
// the catalog directory.
type ScanLock struct {
	lock *flock.Flock
	path string
}

// AcquireScanLock takes the scan lock without blocking. The caller must
// Release it when the scan finishes.
func AcquireScanLock(catalogDir string) (*ScanLock, error) {
	if err := os.MkdirAll(catalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog dir: %w", err)
	}
	path := filepath.Join(catalogDir, "scan.lock")
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &ScanLock{lock: lock, path: path}, nil
}

// Path returns the lock file path.
func (l *ScanLock) Path() string {
	return l.path
}

// Release drops the lock.
func (l *ScanLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
