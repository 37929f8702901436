package merge

// Merge deep-merges src into dest and returns the merged value.
//
// When both src and dest are non-nil map[string]any values, every key of
// src is merged into dest recursively and the mutated dest is returned.
// Keys of dest that src does not shadow are preserved. In every other
// case the result is src: slices and scalars replace wholesale, they are
// never combined.
//
// Merge mutates dest. Callers that need to keep dest intact should pass
// Clone(dest) instead.
func Merge(src, dest any) any {
	s, srcIsMap := src.(map[string]any)
	d, destIsMap := dest.(map[string]any)
	if !srcIsMap || !destIsMap || s == nil || d == nil {
		return src
	}

	for key, value := range s {
		d[key] = Merge(value, d[key])
	}
	return d
}

// Clone returns a deep copy of a JSON-compatible value (maps, slices and
// scalars). Scalars are returned as-is; maps and slices are copied
// recursively so mutations of the copy never reach the original.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if val == nil {
			return val
		}
		out := make(map[string]any, len(val))
		for key, value := range val {
			out[key] = Clone(value)
		}
		return out
	case []any:
		if val == nil {
			return val
		}
		out := make([]any, len(val))
		for i, value := range val {
			out[i] = Clone(value)
		}
		return out
	default:
		return v
	}
}
