package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDetection()
	if err := c.normalizeDiscovery(); err != nil {
		return err
	}
	c.normalizeFrames()
	if err := c.normalizeScan(); err != nil {
		return err
	}
	c.normalizeWatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CatalogDir) == "" {
		c.Paths.CatalogDir = defaultCatalogDir
	}
	if value, ok := os.LookupEnv("ROBONORM_CATALOG_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.CatalogDir = strings.TrimSpace(value)
	}
	if c.Paths.CatalogDir, err = expandPath(c.Paths.CatalogDir); err != nil {
		return fmt.Errorf("paths.catalog_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDetection() {
	c.Detection.FilePattern = strings.TrimSpace(c.Detection.FilePattern)
	if c.Detection.FilePattern == "" {
		c.Detection.FilePattern = defaultFilePattern
	}
	c.Detection.CameraNaming = strings.TrimSpace(c.Detection.CameraNaming)
	if c.Detection.CameraNaming == "" {
		c.Detection.CameraNaming = defaultCameraNaming
	}
	if c.Detection.MaxCameras <= 0 {
		c.Detection.MaxCameras = defaultMaxCameras
	}
	if c.Detection.SampleSize <= 0 {
		c.Detection.SampleSize = defaultSampleSize
	}
}

func (c *Config) normalizeDiscovery() error {
	patterns := normalizeStrings(c.Discovery.EpisodeNamePatterns, func(s string) string {
		return strings.TrimSpace(s)
	})
	if len(patterns) == 0 {
		patterns = append([]string(nil), defaultEpisodePatterns...)
	}
	c.Discovery.EpisodeNamePatterns = patterns

	if c.Discovery.MaxSearchDepth <= 0 {
		c.Discovery.MaxSearchDepth = defaultMaxSearchDepth
	}

	exts := normalizeExtensions(c.Discovery.MetadataExtensions)
	if len(exts) == 0 {
		exts = append([]string(nil), defaultMetadataExtensions...)
	}
	c.Discovery.MetadataExtensions = exts
	return nil
}

func (c *Config) normalizeFrames() {
	exts := normalizeExtensions(c.Frames.ImageExtensions)
	if len(exts) == 0 {
		exts = append([]string(nil), defaultImageExtensions...)
	}
	c.Frames.ImageExtensions = exts
	c.Frames.ImageSubdir = strings.Trim(strings.TrimSpace(c.Frames.ImageSubdir), "/")
}

func (c *Config) normalizeScan() error {
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = defaultWorkers
	}
	if c.Scan.EpisodeWorkers <= 0 {
		c.Scan.EpisodeWorkers = defaultEpisodeWorkers
	}
	if c.Scan.TaskTimeoutSeconds < 0 {
		c.Scan.TaskTimeoutSeconds = 0
	}
	// Task entries are directory names resolved against the dataset root at
	// scan time, so they must not be expanded against the working directory.
	c.Scan.Tasks = normalizeStrings(c.Scan.Tasks, strings.TrimSpace)
	return nil
}

func (c *Config) normalizeWatch() {
	if c.Watch.DebounceSeconds <= 0 {
		c.Watch.DebounceSeconds = defaultWatchDebounce
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if value, ok := os.LookupEnv("ROBONORM_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeExtensions lowercases, dot-prefixes, and dedupes extension lists.
func normalizeExtensions(values []string) []string {
	return normalizeStrings(values, func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return ""
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		return s
	})
}

func normalizeStrings(values []string, transform func(string) string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := transform(value)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
