package config

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateDiscovery(); err != nil {
		return err
	}
	if err := c.validateFrames(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetection() error {
	// A single trailing digit addresses at most ten channels.
	if c.Detection.MaxCameras < 1 || c.Detection.MaxCameras > 10 {
		return errors.New("detection.max_cameras must be between 1 and 10")
	}
	if c.Detection.SampleSize < 1 {
		return errors.New("detection.sample_size must be positive")
	}
	if !strings.Contains(c.Detection.CameraNaming, "{index}") {
		return errors.New("detection.camera_naming must contain the {index} placeholder")
	}
	if _, err := path.Match(c.Detection.FilePattern, "frame_0.jpg"); err != nil {
		return fmt.Errorf("detection.file_pattern: invalid glob %q", c.Detection.FilePattern)
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	if c.Discovery.MaxSearchDepth < 3 {
		return errors.New("discovery.max_episode_search_depth must be at least 3")
	}
	if len(c.Discovery.EpisodeNamePatterns) == 0 {
		return errors.New("discovery.episode_name_patterns must not be empty")
	}
	for _, pattern := range c.Discovery.EpisodeNamePatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return fmt.Errorf("discovery.episode_name_patterns: compile %q: %w", pattern, err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("discovery.episode_name_patterns: %q needs a capture group for the numeric id", pattern)
		}
	}
	if len(c.Discovery.MetadataExtensions) == 0 {
		return errors.New("discovery.metadata_extensions must not be empty")
	}
	return nil
}

func (c *Config) validateFrames() error {
	if len(c.Frames.ImageExtensions) == 0 {
		return errors.New("frames.image_extensions must not be empty")
	}
	if strings.Contains(c.Frames.ImageSubdir, "..") {
		return errors.New("frames.image_subdir must not traverse upward")
	}
	return nil
}

func (c *Config) validateScan() error {
	if err := ensurePositiveMap(map[string]int{
		"scan.workers":         c.Scan.Workers,
		"scan.episode_workers": c.Scan.EpisodeWorkers,
	}); err != nil {
		return err
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
