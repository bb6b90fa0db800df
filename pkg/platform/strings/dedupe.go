// Package strings holds the small normalization helpers services share.
package strings

import (
	"strings"
)

// Fold trims surrounding whitespace and lowercases s, the form used for
// case-insensitive keys such as document kinds.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DedupeBy keeps the first item for each key, preserving order. Items whose
// key is empty are dropped.
//
// Example:
//
//	DedupeBy(docs, func(d Doc) string { return Fold(d.Kind) })
func DedupeBy[T any](items []T, key func(T) string) []T {
	if len(items) == 0 {
		return items
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, it)
	}
	return result
}
