// Package merge implements the aggregation primitives the rest of the module
// is built on: structural deep cloning and first-write-wins merging of
// JSON-like values.
//
// A JSON-like value is a map[string]any, a []any, or an opaque scalar. The
// opaque class covers everything else (strings, numbers, booleans, nil,
// function values, time.Time) and is treated atomically: merge never
// recurses into an opaque value and never replaces one once a key holds it.
package merge

// Merge merges source into target under a first-write-wins policy and
// returns target. Mappings are deep-extended, sequences are concatenated in
// order, and a key that already holds an opaque value keeps it no matter what
// the source carries. When the two sides are containers of different kinds
// the target side stands unchanged.
//
// Target must be an owned, mutable value; callers merging into a shared
// snapshot clone it first. Sequence elements are appended by reference, so
// callers needing isolation from source clone source beforehand.
func Merge(target, source any) any {
	switch tv := target.(type) {
	case map[string]any:
		sv, ok := source.(map[string]any)
		if !ok {
			return target
		}
		for key, value := range sv {
			existing, present := tv[key]
			if !present {
				switch value.(type) {
				case map[string]any:
					tv[key] = Merge(map[string]any{}, value)
				case []any:
					tv[key] = Merge([]any{}, value)
				default:
					tv[key] = value
				}
				continue
			}
			if isContainer(existing) && isContainer(value) {
				tv[key] = Merge(existing, value)
			}
		}
		return tv
	case []any:
		sv, ok := source.([]any)
		if !ok {
			return target
		}
		return append(tv, sv...)
	default:
		return target
	}
}

func isContainer(value any) bool {
	switch value.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}
