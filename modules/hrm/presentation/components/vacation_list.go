package components

import (
	"context"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/vacation"
	"github.com/cams7/cadferias/modules/hrm/presentation/mappers"
	"github.com/cams7/cadferias/modules/hrm/presentation/viewmodels"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/notify"
)

const VacationListID = "vacation-list"

type VacationListOptions struct {
	Vacations *services.VacationService
	Notifier  *notify.Notifier
	Confirmer crud.Confirmer
	PageSize  int
}

type VacationList struct {
	*crud.List[vacation.Vacation, vacation.Filter]
	opts VacationListOptions
}

func NewVacationList(opts VacationListOptions) *VacationList {
	l := &VacationList{opts: opts}
	l.List = crud.NewList(crud.ListOptions[vacation.Vacation, vacation.Filter]{
		FilterType:     crud.FilterVacation,
		FilterBySearch: vacation.FilterBySearch,
		SearchByFilter: vacation.SearchByFilter,
		SortFields:     vacation.SortFields,
		Fetch:          opts.Vacations.Search,
		Delete:         l.remove,
		Filters:        opts.Notifier,
		PageSize:       opts.PageSize,
	})
	return l
}

func (l *VacationList) remove(ctx context.Context, v vacation.Vacation) (bool, error) {
	data := map[string]any{"Name": v.EmployeeName(), "StartDate": v.StartDate.String()}
	ok, err := l.opts.Confirmer.Confirm(ctx,
		intl.Localize(ctx, "Vacations.List.ConfirmDeleteTitle", nil),
		intl.Localize(ctx, "Vacations.List.ConfirmDeleteMessage", data))
	if err != nil || !ok {
		return false, err
	}
	if err := l.opts.Vacations.Remove(ctx, v.EntityID); err != nil {
		l.opts.Notifier.RaiseError(ctx, err)
		return false, err
	}
	l.opts.Notifier.AddSuccessAlert(ctx,
		intl.Localize(ctx, "Vacations.Alerts.DeletedTitle", nil),
		intl.Localize(ctx, "Vacations.Alerts.DeletedMessage", data))
	return true, nil
}

func (l *VacationList) Find(id int64) (vacation.Vacation, bool) {
	for _, v := range l.State().Page.Items {
		if v.EntityID == id {
			return v, true
		}
	}
	return vacation.Vacation{}, false
}

func (l *VacationList) View() *viewmodels.ListPage[viewmodels.Vacation] {
	return mappers.ListPageToViewModel(l.State(), l.SortFields(), mappers.VacationToViewModel)
}

func (l *VacationList) Close() {}
