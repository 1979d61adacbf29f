package mappers

import (
	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/vacation"
	"github.com/cams7/cadferias/modules/hrm/presentation/viewmodels"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/hateoas"
)

func EmployeeToViewModel(e employee.Employee) *viewmodels.Employee {
	vm := &viewmodels.Employee{
		ID:                   e.EntityID,
		EmployeeRegistration: e.EmployeeRegistration,
		Name:                 e.Name,
		BirthDate:            e.BirthDate.String(),
		HiringDate:           e.HiringDate.String(),
		PhoneNumber:          e.PhoneNumber,
		City:                 e.Address.City,
		State:                e.Address.State,
		PhotoURL:             employee.PreviewURL(e),
		Details:              e.Links.Affordance(hateoas.RelGetWithAuditByID),
		Edit:                 e.Links.Affordance(hateoas.RelGetByID),
		Delete:               e.Links.Affordance(hateoas.RelDelete),
	}
	if e.Staff != nil {
		vm.StaffName = e.Staff.Name
	}
	return vm
}

func VacationToViewModel(v vacation.Vacation) *viewmodels.Vacation {
	return &viewmodels.Vacation{
		ID:           v.EntityID,
		EmployeeName: v.EmployeeName(),
		StartDate:    v.StartDate.String(),
		EndDate:      v.EndDate.String(),
		Days:         v.Days(),
		Details:      v.Links.Affordance(hateoas.RelGetWithAuditByID),
		Delete:       v.Links.Affordance(hateoas.RelDelete),
	}
}

// ListPageToViewModel renders list state with mapper applied to every item.
func ListPageToViewModel[E, T any](state crud.ListState[E], sortFields []string, mapper func(E) *T) *viewmodels.ListPage[T] {
	items := make([]*T, 0, len(state.Page.Items))
	for _, item := range state.Page.Items {
		items = append(items, mapper(item))
	}
	sort := state.Sort
	if sort == nil {
		sort = []crud.SortField{}
	}
	return &viewmodels.ListPage[T]{
		Search:        state.Search,
		Sort:          sort,
		SortFields:    sortFields,
		Items:         items,
		Number:        state.Page.Number,
		Size:          state.Page.Size,
		TotalElements: state.Page.TotalElements,
		TotalPages:    state.Page.TotalPages,
		First:         state.Page.First(),
		Last:          state.Page.Last(),
	}
}
