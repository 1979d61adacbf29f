package lookup

import (
	"strings"

	"golang.org/x/text/cases"
)

// Contains reports whether needle occurs in haystack ignoring case. The
// needle is literal text, never a pattern.
func Contains(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(strings.TrimSpace(haystack)), fold.String(needle))
}

// TrimLower is the default query normalizer.
func TrimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Filter keeps the items for which keep returns true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the first item matching pred.
func Find[T any](items []T, pred func(T) bool) (T, bool) {
	for _, item := range items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
