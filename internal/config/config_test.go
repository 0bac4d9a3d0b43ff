package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Detection.SampleSize != defaultSampleSize {
		t.Errorf("sample size = %d, want %d", cfg.Detection.SampleSize, defaultSampleSize)
	}
	if len(cfg.Discovery.EpisodeNamePatterns) != len(defaultEpisodePatterns) {
		t.Errorf("episode patterns = %v", cfg.Discovery.EpisodeNamePatterns)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("expected exists=false for missing file")
	}
	if path == "" {
		t.Error("expected resolved path for missing file")
	}
	if cfg.Detection.CameraNaming != defaultCameraNaming {
		t.Errorf("camera naming = %q", cfg.Detection.CameraNaming)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[detection]
auto_detect = false
max_cameras = 4
camera_naming = "cam_{index}"

[discovery]
metadata_extensions = ["JSON", "json", "bson"]
max_episode_search_depth = 5

[frames]
image_extensions = ["JPG", ".jpeg"]
image_subdir = "/observations/"

[scan]
workers = 2
tasks = [" task_1_pick_cup ", "", "task_1_pick_cup", "task_2_fold_towel"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Detection.AutoDetect {
		t.Error("auto_detect should be false")
	}
	if got := cfg.Discovery.MetadataExtensions; len(got) != 2 || got[0] != ".json" || got[1] != ".bson" {
		t.Errorf("metadata extensions = %v", got)
	}
	if got := cfg.Frames.ImageExtensions; len(got) != 2 || got[0] != ".jpg" || got[1] != ".jpeg" {
		t.Errorf("image extensions = %v", got)
	}
	if cfg.Frames.ImageSubdir != "observations" {
		t.Errorf("image_subdir = %q", cfg.Frames.ImageSubdir)
	}
	if cfg.Scan.Workers != 2 || cfg.Scan.EpisodeWorkers != defaultEpisodeWorkers {
		t.Errorf("scan = %+v", cfg.Scan)
	}
	// Pinned task names stay bare so the scanner can resolve them against
	// the dataset root.
	if got := cfg.Scan.Tasks; len(got) != 2 || got[0] != "task_1_pick_cup" || got[1] != "task_2_fold_towel" {
		t.Errorf("scan tasks = %v", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"max cameras", func(c *Config) { c.Detection.MaxCameras = 11 }, "max_cameras"},
		{"shallow depth", func(c *Config) { c.Discovery.MaxSearchDepth = 2 }, "max_episode_search_depth"},
		{"naming placeholder", func(c *Config) { c.Detection.CameraNaming = "camera" }, "{index}"},
		{"pattern group", func(c *Config) { c.Discovery.EpisodeNamePatterns = []string{`^episode\d+$`} }, "capture group"},
		{"pattern syntax", func(c *Config) { c.Discovery.EpisodeNamePatterns = []string{`^ep(`} }, "compile"},
		{"bad glob", func(c *Config) { c.Detection.FilePattern = "[" }, "file_pattern"},
		{"subdir traversal", func(c *Config) { c.Frames.ImageSubdir = "../frames" }, "image_subdir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q missing %q", err.Error(), tt.want)
			}
		})
	}
}

func TestCompiledEpisodePatternsCaseInsensitive(t *testing.T) {
	cfg := Default()
	patterns, err := cfg.CompiledEpisodePatterns()
	if err != nil {
		t.Fatalf("CompiledEpisodePatterns: %v", err)
	}
	matched := false
	for _, re := range patterns {
		if re.MatchString("Episode_07") {
			matched = true
		}
	}
	if !matched {
		t.Error("expected Episode_07 to match a default pattern")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROBONORM_CATALOG_DIR", filepath.Join(dir, "catalog"))
	t.Setenv("ROBONORM_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := Load(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.CatalogDir != filepath.Join(dir, "catalog") {
		t.Errorf("catalog dir = %q", cfg.Paths.CatalogDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[detection]") {
		t.Error("sample config missing [detection] section")
	}
}
