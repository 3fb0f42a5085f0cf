// Package strings provides helpers for string-like slices.
package strings

// Dedupe removes duplicates and empty values from a slice of any string type.
// Order of first occurrence is preserved.
//
// Example:
//
//	Dedupe([]Address{"alice", "bob", "alice", ""})
//	// Returns: []Address{"alice", "bob"}
func Dedupe[T ~string](values []T) []T {
	if len(values) == 0 {
		return values
	}

	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// Chunk splits values into consecutive batches of at most size elements.
func Chunk[T any](values []T, size int) [][]T {
	if size <= 0 || len(values) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := min(start+size, len(values))
		out = append(out, values[start:end])
	}
	return out
}
