// Package preflight verifies the environment before a scan starts: dataset
// root readability, catalog and log directory access, and free disk space
// for the catalog. Checks report results instead of failing fast so the CLI
// can show every problem at once.
package preflight
