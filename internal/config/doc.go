// Package config loads, normalizes, and validates robonorm configuration.
//
// Configuration is TOML with one section per subsystem: [paths] for catalog
// and log directories, [detection] for camera auto-detection, [discovery] for
// episode directory matching, [frames] for frame collection, [scan] for
// worker and timeout settings, [watch] for rescan debouncing, and [logging].
//
// Load resolves the config path (explicit flag, ~/.config/robonorm/config.toml,
// or ./robonorm.toml), applies defaults for everything unset, expands home
// paths, and validates the result. Components receive their option structs
// from the loaded Config rather than reading global state, so concurrent
// tasks cannot cross-contaminate pattern configuration.
package config
