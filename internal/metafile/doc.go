// Package metafile selects the canonical metadata record for one episode.
//
// Capture tooling drops several JSON files next to each other (calibration
// dumps, device info, the actual demonstration record). Exactly one of them is
// the primary record downstream writers consume. Selection priority: a
// filename containing the token "data", then one containing "episode", then
// the shortest filename with an alphabetical tie-break.
package metafile
