package crud

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
)

var (
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrInvalidPage      = errors.New("invalid page")
)

type ListOptions[E, F any] struct {
	FilterType     FilterType
	FilterBySearch func(search string) F
	SearchByFilter func(filter F) string
	// SortFields lists the sortable properties in display order.
	SortFields []string
	Fetch      func(ctx context.Context, query SearchQuery[F]) (Page[E], error)
	// Delete asks for confirmation itself and reports whether the entity was
	// removed.
	Delete   func(ctx context.Context, entity E) (bool, error)
	Filters  FilterStore
	PageSize int
}

// ListState is what a view needs to render the list.
type ListState[E any] struct {
	Search string      `json:"search"`
	Sort   []SortField `json:"sort"`
	Page   Page[E]     `json:"page"`
}

type List[E, F any] struct {
	opts ListOptions[E, F]

	mu     sync.Mutex
	search string
	filter F
	page   int
	sort   map[string]Direction
	result Page[E]
}

func NewList[E, F any](opts ListOptions[E, F]) *List[E, F] {
	if opts.Fetch == nil {
		panic("crud: ListOptions.Fetch is required")
	}
	if opts.FilterBySearch == nil {
		opts.FilterBySearch = func(string) F {
			var zero F
			return zero
		}
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	return &List[E, F]{
		opts: opts,
		sort: map[string]Direction{},
	}
}

func (l *List[E, F]) State() ListState[E] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListState[E]{Search: l.search, Sort: l.sortFields(), Page: l.result}
}

func (l *List[E, F]) SortFields() []string {
	return append([]string(nil), l.opts.SortFields...)
}

// Search rebuilds the filter from free text, registers it for later restore
// and fetches the first page.
func (l *List[E, F]) Search(ctx context.Context, text string) (Page[E], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = text
	l.filter = l.opts.FilterBySearch(text)
	l.page = 0
	if l.opts.Filters != nil {
		l.opts.Filters.RegisterFilter(ctx, l.opts.FilterType, l.filter)
	}
	return l.fetch(ctx)
}

// Restore reloads the last registered filter for this list's type.
func (l *List[E, F]) Restore(ctx context.Context) (Page[E], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = 0
	if l.opts.Filters != nil {
		if stored, ok := l.opts.Filters.LastFilter(ctx, l.opts.FilterType); ok {
			if filter, ok := stored.(F); ok {
				l.filter = filter
				if l.opts.SearchByFilter != nil {
					l.search = l.opts.SearchByFilter(filter)
				}
			}
		}
	}
	return l.fetch(ctx)
}

func (l *List[E, F]) GoTo(ctx context.Context, page int) (Page[E], error) {
	if page < 0 {
		return Page[E]{}, errors.Wrapf(ErrInvalidPage, "%d", page)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = page
	return l.fetch(ctx)
}

// Sort cycles field through ASC and DESC and clears every other field.
func (l *List[E, F]) Sort(ctx context.Context, field string) (Page[E], error) {
	if !l.sortable(field) {
		return Page[E]{}, errors.Wrap(ErrUnknownSortField, field)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	next := ASC
	if l.sort[field] == ASC {
		next = DESC
	}
	l.sort = map[string]Direction{field: next}
	l.page = 0
	return l.fetch(ctx)
}

func (l *List[E, F]) Refresh(ctx context.Context) (Page[E], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fetch(ctx)
}

// Delete runs the delete strategy and, when something was removed, reloads
// the current page, stepping back one page if it became empty.
func (l *List[E, F]) Delete(ctx context.Context, entity E) (bool, error) {
	if l.opts.Delete == nil {
		return false, errors.New("list has no delete operation")
	}
	deleted, err := l.opts.Delete(ctx, entity)
	if err != nil || !deleted {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	page, err := l.fetch(ctx)
	if err != nil {
		return true, err
	}
	if page.Empty() && l.page > 0 {
		l.page--
		if _, err := l.fetch(ctx); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (l *List[E, F]) sortable(field string) bool {
	for _, f := range l.opts.SortFields {
		if f == field {
			return true
		}
	}
	return false
}

func (l *List[E, F]) sortFields() []SortField {
	out := make([]SortField, 0, len(l.sort))
	for _, field := range l.opts.SortFields {
		if dir, ok := l.sort[field]; ok {
			out = append(out, SortField{Property: field, Direction: dir})
		}
	}
	return out
}

func (l *List[E, F]) fetch(ctx context.Context) (Page[E], error) {
	query := SearchQuery[F]{
		Search: l.search,
		Filter: l.filter,
		Page:   l.page,
		Size:   l.opts.PageSize,
		Sort:   l.sortFields(),
	}
	page, err := l.opts.Fetch(ctx, query)
	if err != nil {
		return Page[E]{}, errors.Wrap(err, "fetch page")
	}
	l.result = page
	return page, nil
}
