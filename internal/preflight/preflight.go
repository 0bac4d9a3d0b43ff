package preflight

import (
	"robonorm/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minCatalogFreeBytes is the free-space floor for the catalog volume.
const minCatalogFreeBytes = 100 << 20

// RunAll executes every applicable check for the given config and dataset
// root. An empty dataset root skips the dataset check so the config command
// can preflight without a scan target.
func RunAll(cfg *config.Config, datasetRoot string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if datasetRoot != "" {
		results = append(results, CheckReadableDirectory("Dataset root", datasetRoot))
	}
	results = append(results, CheckWritableDirectory("Catalog directory", cfg.Paths.CatalogDir))
	results = append(results, CheckWritableDirectory("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckFreeSpace("Catalog free space", cfg.Paths.CatalogDir, minCatalogFreeBytes))
	return results
}

// Passed reports whether every result in the set passed.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
