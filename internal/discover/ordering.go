package discover

import "sort"

// Order returns the candidates in canonical episode order: numeric id
// ascending, candidates without an id last, raw name and then path as
// tie-breaks. The input is not modified; the result depends only on the set,
// never on filesystem iteration order.
//
// Two candidates resolving to the same id from different naming patterns
// (episode_3 and ep3) stay distinct and fall through to the raw-name
// tie-break rather than being merged or discarded.
func Order(candidates []Candidate) []Candidate {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.HasID != b.HasID {
			return a.HasID
		}
		if a.HasID && a.NumericID != b.NumericID {
			return a.NumericID < b.NumericID
		}
		if a.RawName != b.RawName {
			return a.RawName < b.RawName
		}
		return a.Path < b.Path
	})
	return ordered
}
