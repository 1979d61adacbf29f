package components

import (
	"context"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/presentation/mappers"
	"github.com/cams7/cadferias/modules/hrm/presentation/viewmodels"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/notify"
)

// EmployeeListID names the employee list among a session's components.
const EmployeeListID = "employee-list"

type EmployeeListOptions struct {
	Employees *services.EmployeeService
	Notifier  *notify.Notifier
	Confirmer crud.Confirmer
	PageSize  int
}

type EmployeeList struct {
	*crud.List[employee.Employee, employee.Filter]
	opts EmployeeListOptions
}

func NewEmployeeList(opts EmployeeListOptions) *EmployeeList {
	l := &EmployeeList{opts: opts}
	l.List = crud.NewList(crud.ListOptions[employee.Employee, employee.Filter]{
		FilterType:     crud.FilterEmployee,
		FilterBySearch: employee.FilterBySearch,
		SearchByFilter: employee.SearchByFilter,
		SortFields:     employee.SortFields,
		Fetch:          opts.Employees.Search,
		Delete:         l.remove,
		Filters:        opts.Notifier,
		PageSize:       opts.PageSize,
	})
	return l
}

// remove asks before deleting. A declined prompt is not an error.
func (l *EmployeeList) remove(ctx context.Context, e employee.Employee) (bool, error) {
	data := map[string]any{"Name": e.Name}
	ok, err := l.opts.Confirmer.Confirm(ctx,
		intl.Localize(ctx, "Employees.List.ConfirmDeleteTitle", nil),
		intl.Localize(ctx, "Employees.List.ConfirmDeleteMessage", data))
	if err != nil || !ok {
		return false, err
	}
	if err := l.opts.Employees.Remove(ctx, e); err != nil {
		l.opts.Notifier.RaiseError(ctx, err)
		return false, err
	}
	l.opts.Notifier.AddSuccessAlert(ctx,
		intl.Localize(ctx, "Employees.Alerts.DeletedTitle", nil),
		intl.Localize(ctx, "Employees.Alerts.DeletedMessage", data))
	return true, nil
}

// Find returns the row with id on the current page.
func (l *EmployeeList) Find(id int64) (employee.Employee, bool) {
	for _, e := range l.State().Page.Items {
		if e.EntityID == id {
			return e, true
		}
	}
	return employee.Employee{}, false
}

func (l *EmployeeList) View() *viewmodels.ListPage[viewmodels.Employee] {
	return mappers.ListPageToViewModel(l.State(), l.SortFields(), mappers.EmployeeToViewModel)
}

func (l *EmployeeList) Close() {}
