package merge

// Clone returns a structurally independent copy of a JSON-like value.
// Mappings and sequences are rebuilt recursively; opaque scalars, nil
// included, pass through as-is. Pure: never mutates value, never fails.
func Clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return value
	}
}

// CloneMap clones a top-level aggregate mapping. A nil map counts as absent
// and yields a new empty mapping, so callers always receive an owned,
// non-nil value.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = Clone(value)
	}
	return out
}
