package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CatalogDir string `toml:"catalog_dir"`
	LogDir     string `toml:"log_dir"`
}

// Detection contains camera channel auto-detection settings.
type Detection struct {
	// AutoDetect toggles multi-camera detection. When false every task gets a
	// single implicit camera at index 0.
	AutoDetect bool `toml:"auto_detect"`
	// FilePattern is the glob a filename must match to join the detection
	// sample (matched case-insensitively against the base name).
	FilePattern string `toml:"file_pattern"`
	// CameraNaming is the channel label template; {index} is replaced with
	// the camera index.
	CameraNaming string `toml:"camera_naming"`
	// MaxCameras caps the number of channels admitted into the manifest.
	MaxCameras int `toml:"max_cameras"`
	// SampleSize bounds how many filenames the detector inspects.
	SampleSize int `toml:"sample_size"`
}

// Discovery contains episode directory discovery settings.
type Discovery struct {
	// EpisodeNamePatterns are regular expressions a directory name must match
	// to qualify as an episode candidate. Each needs one capture group for
	// the numeric id. Matched case-insensitively.
	EpisodeNamePatterns []string `toml:"episode_name_patterns"`
	// MaxSearchDepth bounds the directory walk below a task root.
	MaxSearchDepth int `toml:"max_episode_search_depth"`
	// MetadataExtensions are the file extensions that mark metadata records.
	MetadataExtensions []string `toml:"metadata_extensions"`
}

// Frames contains frame collection settings.
type Frames struct {
	// ImageExtensions are the accepted frame file extensions.
	ImageExtensions []string `toml:"image_extensions"`
	// ImageSubdir optionally narrows the frame search to a sub-path of the
	// metadata file's directory.
	ImageSubdir string `toml:"image_subdir"`
}

// Scan contains worker pool and timeout settings.
type Scan struct {
	// Workers bounds how many tasks are normalized concurrently.
	Workers int `toml:"workers"`
	// EpisodeWorkers bounds concurrent episode processing within one task.
	EpisodeWorkers int `toml:"episode_workers"`
	// TaskTimeoutSeconds aborts a single task when exceeded; 0 disables.
	TaskTimeoutSeconds int `toml:"task_timeout_seconds"`
	// Tasks pins the scan to specific task directories, either as names
	// under the dataset root or as absolute paths. When empty, the immediate
	// subdirectories of the dataset root are treated as tasks.
	Tasks []string `toml:"tasks"`
}

// Watch contains settings for the filesystem watch mode.
type Watch struct {
	// DebounceSeconds coalesces change bursts before triggering a rescan.
	DebounceSeconds int `toml:"debounce_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for robonorm.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Detection Detection `toml:"detection"`
	Discovery Discovery `toml:"discovery"`
	Frames    Frames    `toml:"frames"`
	Scan      Scan      `toml:"scan"`
	Watch     Watch     `toml:"watch"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/robonorm/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("robonorm.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for a scan.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CatalogDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CompiledEpisodePatterns compiles the configured episode name patterns with
// case-insensitive matching. Validate guarantees they compile, so callers
// holding a validated config may ignore the error.
func (c *Config) CompiledEpisodePatterns() ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(c.Discovery.EpisodeNamePatterns))
	for _, pattern := range c.Discovery.EpisodeNamePatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("discovery.episode_name_patterns: compile %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
