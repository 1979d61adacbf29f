package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type personFilter struct {
	Name string `json:"name,omitempty"`
}

type memoryFilters map[FilterType]any

func (m memoryFilters) RegisterFilter(ctx context.Context, filterType FilterType, filter any) {
	m[filterType] = filter
}

func (m memoryFilters) LastFilter(ctx context.Context, filterType FilterType) (any, bool) {
	f, ok := m[filterType]
	return f, ok
}

type fakeBackend struct {
	people  []person
	queries []SearchQuery[personFilter]
	removed []int64
}

func (b *fakeBackend) fetch(ctx context.Context, q SearchQuery[personFilter]) (Page[person], error) {
	b.queries = append(b.queries, q)
	matched := make([]person, 0)
	for _, p := range b.people {
		if q.Filter.Name == "" || p.Name == q.Filter.Name {
			matched = append(matched, p)
		}
	}
	start := q.Page * q.Size
	end := start + q.Size
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	total := len(matched)
	pages := (total + q.Size - 1) / q.Size
	return Page[person]{Items: matched[start:end], Number: q.Page, Size: q.Size, TotalElements: int64(total), TotalPages: pages}, nil
}

func (b *fakeBackend) remove(id int64) {
	b.removed = append(b.removed, id)
	kept := b.people[:0]
	for _, p := range b.people {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	b.people = kept
}

func newPersonList(backend *fakeBackend, filters FilterStore, confirmer Confirmer) *List[person, personFilter] {
	return NewList(ListOptions[person, personFilter]{
		FilterType:     FilterEmployee,
		FilterBySearch: func(search string) personFilter { return personFilter{Name: search} },
		SearchByFilter: func(f personFilter) string { return f.Name },
		SortFields:     []string{"name", "birthDate"},
		Fetch:          backend.fetch,
		Delete: func(ctx context.Context, p person) (bool, error) {
			ok, err := confirmer.Confirm(ctx, "Confirm", "remove "+p.Name+"?")
			if err != nil || !ok {
				return false, err
			}
			backend.remove(p.ID)
			return true, nil
		},
		Filters:  filters,
		PageSize: 2,
	})
}

func TestList_SearchRegistersFilterAndResetsPage(t *testing.T) {
	backend := &fakeBackend{people: []person{{ID: 1, Name: "Maria"}, {ID: 2, Name: "Ana"}, {ID: 3, Name: "Maria"}}}
	filters := memoryFilters{}
	list := newPersonList(backend, filters, &stubConfirmer{})

	_, err := list.GoTo(context.Background(), 1)
	require.NoError(t, err)

	page, err := list.Search(context.Background(), "Maria")
	require.NoError(t, err)

	assert.Equal(t, 0, page.Number)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, personFilter{Name: "Maria"}, filters[FilterEmployee])
	last := backend.queries[len(backend.queries)-1]
	assert.Equal(t, "Maria", last.Search)
	assert.Equal(t, 2, last.Size)
}

func TestList_RestoreUsesLastFilter(t *testing.T) {
	backend := &fakeBackend{people: []person{{ID: 1, Name: "Maria"}, {ID: 2, Name: "Ana"}}}
	filters := memoryFilters{FilterEmployee: personFilter{Name: "Ana"}}
	list := newPersonList(backend, filters, &stubConfirmer{})

	page, err := list.Restore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []person{{ID: 2, Name: "Ana"}}, page.Items)
	assert.Equal(t, "Ana", list.State().Search)
}

func TestList_SortCycles(t *testing.T) {
	backend := &fakeBackend{}
	list := newPersonList(backend, nil, &stubConfirmer{})
	ctx := context.Background()

	_, err := list.Sort(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, []SortField{{Property: "name", Direction: ASC}}, list.State().Sort)

	_, err = list.Sort(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, []SortField{{Property: "name", Direction: DESC}}, list.State().Sort)

	_, err = list.Sort(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, []SortField{{Property: "name", Direction: ASC}}, list.State().Sort)

	_, err = list.Sort(ctx, "birthDate")
	require.NoError(t, err)
	assert.Equal(t, []SortField{{Property: "birthDate", Direction: ASC}}, list.State().Sort)

	_, err = list.Sort(ctx, "salary")
	require.ErrorIs(t, err, ErrUnknownSortField)
}

func TestList_DeleteDeclinedNeverRemoves(t *testing.T) {
	backend := &fakeBackend{people: []person{{ID: 1, Name: "Maria"}}}
	confirmer := &stubConfirmer{answer: false}
	list := newPersonList(backend, nil, confirmer)

	deleted, err := list.Delete(context.Background(), person{ID: 1, Name: "Maria"})

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 1, confirmer.calls)
	assert.Empty(t, backend.removed)
	assert.Empty(t, backend.queries, "declined delete does not refresh")
}

func TestList_DeleteStepsBackFromEmptyPage(t *testing.T) {
	backend := &fakeBackend{people: []person{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}}
	list := newPersonList(backend, nil, &stubConfirmer{answer: true})
	ctx := context.Background()

	page, err := list.GoTo(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []person{{ID: 3, Name: "C"}}, page.Items)

	deleted, err := list.Delete(ctx, person{ID: 3, Name: "C"})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []int64{3}, backend.removed)

	state := list.State()
	assert.Equal(t, 0, state.Page.Number)
	assert.Len(t, state.Page.Items, 2)
}

func TestList_GoToRejectsNegativePage(t *testing.T) {
	list := newPersonList(&fakeBackend{}, nil, &stubConfirmer{})
	_, err := list.GoTo(context.Background(), -1)
	require.ErrorIs(t, err, ErrInvalidPage)
}

func TestPage_Bounds(t *testing.T) {
	assert.True(t, Page[int]{}.Last())
	assert.True(t, Page[int]{Number: 0, TotalPages: 3}.First())
	assert.False(t, Page[int]{Number: 1, TotalPages: 3}.Last())
	assert.True(t, Page[int]{Number: 2, TotalPages: 3}.Last())
}
