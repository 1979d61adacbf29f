package components_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/vacation"
	"github.com/cams7/cadferias/modules/hrm/presentation/components"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/session"
	"github.com/cams7/cadferias/pkg/shared"
)

func employees(n int) []employee.Employee {
	out := make([]employee.Employee, n)
	for i := range out {
		out[i] = employee.Employee{EntityID: int64(i + 1), Name: fmt.Sprintf("Employee %d", i+1)}
	}
	return out
}

func (h *harness) employeeList(pageSize int) *components.EmployeeList {
	return components.NewEmployeeList(components.EmployeeListOptions{
		Employees: h.employees,
		Notifier:  h.notifier,
		Confirmer: composables.RequestConfirmer{},
		PageSize:  pageSize,
	})
}

func TestEmployeeList_DeclinedDeleteKeepsRow(t *testing.T) {
	h := newHarness(t, employees(3)...)
	list := h.employeeList(2)
	ctx, interaction := h.request(false)
	_, err := list.Refresh(ctx)
	require.NoError(t, err)

	target, ok := list.Find(2)
	require.True(t, ok)
	deleted, err := list.Delete(ctx, target)

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 3, h.repo.len())
	prompt, asked := interaction.Prompt()
	require.True(t, asked)
	assert.Contains(t, prompt.Message, "Employee 2")
	assert.Empty(t, h.sess.DrainAlerts())
}

func TestEmployeeList_ConfirmedDeleteStepsBack(t *testing.T) {
	h := newHarness(t, employees(3)...)
	list := h.employeeList(2)
	deletedEvents := 0
	defer h.bus.Subscribe(func(*employee.DeletedEvent) { deletedEvents++ })()

	ctx, _ := h.request(true)
	page, err := list.GoTo(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	target, ok := list.Find(3)
	require.True(t, ok)
	deleted, err := list.Delete(ctx, target)

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 2, h.repo.len())
	assert.Equal(t, 1, deletedEvents)
	view := list.View()
	assert.Equal(t, 0, view.Number)
	assert.Len(t, view.Items, 2)

	alerts := h.sess.DrainAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, session.AlertSuccess, alerts[0].Type)
}

func TestEmployeeList_SearchIsRestoredForTheSession(t *testing.T) {
	h := newHarness(t, employees(3)...)
	ctx, _ := h.request(false)

	first := h.employeeList(10)
	_, err := first.Search(ctx, "Employee 1")
	require.NoError(t, err)

	second := h.employeeList(10)
	_, err = second.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Employee 1", second.State().Search)

	_, missing := second.Find(99)
	assert.False(t, missing)
}

type memoryVacations struct {
	mu      sync.Mutex
	items   []vacation.Vacation
	removed []int64
}

func (m *memoryVacations) Search(ctx context.Context, q crud.SearchQuery[vacation.Filter]) (crud.Page[vacation.Vacation], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := append([]vacation.Vacation(nil), m.items...)
	sort.Slice(items, func(i, j int) bool { return items[i].EntityID < items[j].EntityID })
	return crud.Page[vacation.Vacation]{
		Items:         items,
		Size:          q.Size,
		TotalElements: int64(len(items)),
		TotalPages:    1,
	}, nil
}

func (m *memoryVacations) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
	kept := m.items[:0]
	for _, v := range m.items {
		if v.EntityID != id {
			kept = append(kept, v)
		}
	}
	m.items = kept
	return nil
}

func TestVacationList_Delete(t *testing.T) {
	h := newHarness(t)
	repo := &memoryVacations{items: []vacation.Vacation{{
		EntityID:  5,
		Employee:  &employee.Employee{EntityID: 1, Name: "Maria"},
		StartDate: shared.NewDate(2024, time.January, 8),
		EndDate:   shared.NewDate(2024, time.January, 22),
	}}}
	list := components.NewVacationList(components.VacationListOptions{
		Vacations: services.NewVacationService(repo),
		Notifier:  h.notifier,
		Confirmer: composables.RequestConfirmer{},
		PageSize:  10,
	})

	ctx, interaction := h.request(false)
	_, err := list.Refresh(ctx)
	require.NoError(t, err)
	target, ok := list.Find(5)
	require.True(t, ok)

	deleted, err := list.Delete(ctx, target)
	require.NoError(t, err)
	assert.False(t, deleted)
	prompt, asked := interaction.Prompt()
	require.True(t, asked)
	assert.Contains(t, prompt.Message, "08/01/2024")
	assert.Empty(t, repo.removed)

	ctx, _ = h.request(true)
	deleted, err = list.Delete(ctx, target)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []int64{5}, repo.removed)
	assert.Empty(t, list.View().Items)
}
