package config

const (
	defaultCatalogDir     = "~/.local/share/robonorm/catalog"
	defaultLogDir         = "~/.local/share/robonorm/logs"
	defaultFilePattern    = "*.jp*g"
	defaultCameraNaming   = "color_{index}"
	defaultMaxCameras     = 8
	defaultSampleSize     = 20
	defaultMaxSearchDepth = 3
	defaultWorkers        = 4
	defaultEpisodeWorkers = 2
	defaultWatchDebounce  = 2
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Episode directory naming observed across capture rigs: episode1, episode_1,
// ep1, ep_1, and bare numeric names including zero-padded ones.
var defaultEpisodePatterns = []string{
	`^episode[_-]?(\d+)$`,
	`^ep[_-]?(\d+)$`,
	`^(\d+)$`,
}

var (
	defaultMetadataExtensions = []string{".json"}
	defaultImageExtensions    = []string{".jpg", ".jpeg"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogDir: defaultCatalogDir,
			LogDir:     defaultLogDir,
		},
		Detection: Detection{
			AutoDetect:   true,
			FilePattern:  defaultFilePattern,
			CameraNaming: defaultCameraNaming,
			MaxCameras:   defaultMaxCameras,
			SampleSize:   defaultSampleSize,
		},
		Discovery: Discovery{
			EpisodeNamePatterns: append([]string(nil), defaultEpisodePatterns...),
			MaxSearchDepth:      defaultMaxSearchDepth,
			MetadataExtensions:  append([]string(nil), defaultMetadataExtensions...),
		},
		Frames: Frames{
			ImageExtensions: append([]string(nil), defaultImageExtensions...),
		},
		Scan: Scan{
			Workers:        defaultWorkers,
			EpisodeWorkers: defaultEpisodeWorkers,
		},
		Watch: Watch{
			DebounceSeconds: defaultWatchDebounce,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
