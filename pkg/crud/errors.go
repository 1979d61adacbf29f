package crud

import (
	"sort"
	"strings"
)

// ValidationError reports the fields a draft failed on, keyed by form field
// with a localized message each. A submit strategy returns it before any
// network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}
