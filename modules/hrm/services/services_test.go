package services_test

import (
	"context"
	"sort"
	"sync"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/session"
)

var errNotFound = errors.New("not found")

type memoryEmployees struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]employee.Employee
}

func newMemoryEmployees(seed ...employee.Employee) *memoryEmployees {
	m := &memoryEmployees{items: map[int64]employee.Employee{}}
	for _, e := range seed {
		m.items[e.EntityID] = e
		if e.EntityID > m.nextID {
			m.nextID = e.EntityID
		}
	}
	return m
}

func (m *memoryEmployees) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return employee.Employee{}, errNotFound
	}
	return e, nil
}

func (m *memoryEmployees) Save(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.EntityID == 0 {
		m.nextID++
		e.EntityID = m.nextID
	}
	m.items[e.EntityID] = e
	return e, nil
}

func (m *memoryEmployees) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return errNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryEmployees) Search(ctx context.Context, q crud.SearchQuery[employee.Filter]) (crud.Page[employee.Employee], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]employee.Employee, 0, len(m.items))
	for _, e := range m.items {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EntityID < all[j].EntityID })

	start := q.Page * q.Size
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Size
	if end > len(all) {
		end = len(all)
	}
	return crud.Page[employee.Employee]{
		Items:         all[start:end],
		Number:        q.Page,
		Size:          q.Size,
		TotalElements: int64(len(all)),
		TotalPages:    (len(all) + q.Size - 1) / q.Size,
	}, nil
}

type stubAuth struct {
	token user.Token
	err   error
	got   user.User
}

func (s *stubAuth) SignIn(ctx context.Context, credentials user.User) (user.Token, error) {
	s.got = credentials
	return s.token, s.err
}

func sessionContext() (context.Context, *session.Session) {
	sess := session.NewStore(session.StoreOptions{}).Create()
	return composables.WithSession(context.Background(), sess), sess
}
