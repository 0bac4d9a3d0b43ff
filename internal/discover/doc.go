// Package discover finds candidate episode directories under a task root and
// orders them deterministically.
//
// The locator walks the tree with an explicit queue carrying a depth counter,
// which keeps the depth bound enforceable and lets a cancelled context stop
// the scan mid-walk. A directory qualifies only when its name matches one of
// the configured episode patterns and it directly contains a metadata file;
// nested matches alone never qualify, so an episode directory containing a
// further pattern-matching subdirectory is not double-counted.
//
// Ordering is a pure function of the candidate set: numeric id ascending,
// candidates without a parseable id last, raw name and then path as
// tie-breaks. Re-running over an unchanged tree always yields the same
// sequence regardless of filesystem iteration order.
//
// When no candidate matches, callers fall back to a flat recursive metadata
// scan (FlatMetadataScan) so an unrecognized layout still produces output.
package discover
