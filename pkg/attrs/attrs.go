// Package attrs reads values back out of slog-style key/value argument lists.
package attrs

// ExtractString returns the string stored under key in a flat
// [key1, value1, key2, value2, ...] list. Non-string keys and values are
// skipped; a missing key yields "".
func ExtractString(kv []any, key string) string {
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); !ok || k != key {
			continue
		}
		if v, ok := kv[i+1].(string); ok {
			return v
		}
	}
	return ""
}

// Strings collects every string-valued pair of kv into a map. Later keys win.
func Strings(kv []any) map[string]string {
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		if v, ok := kv[i+1].(string); ok {
			out[k] = v
		}
	}
	return out
}
