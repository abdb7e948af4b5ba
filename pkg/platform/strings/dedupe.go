// Package strings provides string list normalization shared by request models.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and blank entries from a slice,
// trimming whitespace from each element. Order is preserved and comparison
// is case-sensitive.
//
// Example:
//
//	DedupeAndTrim([]string{"  vendor ", "legal", "vendor", "", "  "})
//	// Returns: []string{"vendor", "legal"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// TrimNonBlank trims each element and drops the blank ones. Unlike
// DedupeAndTrim, repeated entries are kept: the list is ordered, not a set.
func TrimNonBlank(values []string) []string {
	if len(values) == 0 {
		return values
	}

	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
