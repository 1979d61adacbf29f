package crud

import "context"

// Confirmer asks the user a yes/no question. A missing answer is "no".
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Navigator records where the client should go next.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

type History interface {
	// HasPrevious reports whether previous was visited right before current.
	HasPrevious(previous, current string) bool
}

// FilterStore keeps the last filter registered per filter type so a list
// can restore it after navigating away and back.
type FilterStore interface {
	RegisterFilter(ctx context.Context, filterType FilterType, filter any)
	LastFilter(ctx context.Context, filterType FilterType) (any, bool)
}

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(ctx context.Context, title, message string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, title, message string) (bool, error) {
	return f(ctx, title, message)
}

type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}
