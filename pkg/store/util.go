package store

import (
	"strings"
)

// DedupeStrings trims every value and drops blanks and repeats, keeping
// first-seen order.
func DedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ClampLimit bounds a requested row count to [1, max].
func ClampLimit(limit, max int) int {
	if limit <= 0 {
		return max
	}
	return min(limit, max)
}
