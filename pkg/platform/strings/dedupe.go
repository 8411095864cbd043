// Package strings provides string-list helpers for configuration parsing.
package strings

import (
	"strings"
)

// SplitList parses a comma-separated list such as KAFKA_BROKERS, trimming
// whitespace and dropping empties and repeats.
func SplitList(raw string) []string {
	return DedupeAndTrim(strings.Split(raw, ","))
}

// DedupeAndTrim trims each element and drops empties and duplicates. The
// first occurrence wins; order is otherwise preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
