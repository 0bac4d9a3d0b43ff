package testsupport

import (
	"path/filepath"
	"testing"

	"robonorm/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogDir = filepath.Join(base, "catalog")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithTasks pins the scan to specific task names on the test config.
func WithTasks(tasks ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Tasks = tasks
	}
}

// WithWorkers overrides the scan worker counts on the test config.
func WithWorkers(tasks, episodes int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Workers = tasks
		b.cfg.Scan.EpisodeWorkers = episodes
	}
}

// WithMaxCameras overrides the camera cap on the test config.
func WithMaxCameras(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Detection.MaxCameras = n
	}
}
