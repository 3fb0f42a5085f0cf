// Package attrs reads values back out of slog-style key/value attribute slices.
package attrs

// ExtractString extracts a string value from a key-value attribute slice.
// The slice should be formatted as [key1, value1, key2, value2, ...].
// fmt.Stringer values are rendered; other types yield "".
func ExtractString(attrs []any, key string) string {
	v, ok := lookup(attrs, key)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case interface{ String() string }:
		return s.String()
	}
	return ""
}

// ExtractUint extracts an unsigned integer value, accepting any built-in integer type.
func ExtractUint(attrs []any, key string) (uint64, bool) {
	v, ok := lookup(attrs, key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case int:
		if n >= 0 {
			return uint64(n), true
		}
	case int64:
		if n >= 0 {
			return uint64(n), true
		}
	}
	return 0, false
}

func lookup(attrs []any, key string) (any, bool) {
	for i := 0; i < len(attrs)-1; i += 2 {
		if k, ok := attrs[i].(string); ok && k == key {
			return attrs[i+1], true
		}
	}
	return nil, false
}
