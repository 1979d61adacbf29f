package controllers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/presentation/components"
	"github.com/cams7/cadferias/modules/hrm/presentation/viewmodels"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/notify"
	"github.com/cams7/cadferias/pkg/session"
	"github.com/cams7/cadferias/pkg/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type EmployeeController struct {
	app             application.Application
	settings        Settings
	employeeService *services.EmployeeService
	addressService  *services.AddressService
	staffService    *services.StaffService
	exportService   *services.ExportService
	notifier        *notify.Notifier
	basePath        string
}

func NewEmployeeController(app application.Application, settings Settings) application.Controller {
	return &EmployeeController{
		app:             app,
		settings:        settings,
		employeeService: app.Service(services.EmployeeService{}).(*services.EmployeeService),
		addressService:  app.Service(services.AddressService{}).(*services.AddressService),
		staffService:    app.Service(services.StaffService{}).(*services.StaffService),
		exportService:   app.Service(services.ExportService{}).(*services.ExportService),
		notifier:        app.Service(notify.Notifier{}).(*notify.Notifier),
		basePath:        components.EmployeesPath,
	}
}

func (c *EmployeeController) Key() string {
	return c.basePath
}

func (c *EmployeeController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(authenticated()...)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/forms", c.OpenForm).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

// list returns the session's employee list, creating it on first use.
func (c *EmployeeController) list(sess *session.Session) (*components.EmployeeList, bool) {
	if existing, ok := sess.Component(components.EmployeeListID); ok {
		if l, ok := existing.(*components.EmployeeList); ok {
			return l, false
		}
	}
	l := components.NewEmployeeList(components.EmployeeListOptions{
		Employees: c.employeeService,
		Notifier:  c.notifier,
		Confirmer: composables.RequestConfirmer{},
		PageSize:  c.settings.PageSize,
	})
	sess.Attach(components.EmployeeListID, l)
	return l, true
}

func (c *EmployeeController) List(w http.ResponseWriter, r *http.Request) {
	sess, err := composables.UseSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, created := c.list(sess)
	if err := applyListQuery[employee.Employee](r, l.List, created); err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, l.View())
}

type listEngine[E any] interface {
	Search(ctx context.Context, text string) (crud.Page[E], error)
	Restore(ctx context.Context) (crud.Page[E], error)
	Sort(ctx context.Context, field string) (crud.Page[E], error)
	GoTo(ctx context.Context, page int) (crud.Page[E], error)
	Refresh(ctx context.Context) (crud.Page[E], error)
}

// ListQuery is the query string of a list page. Nil fields were not sent.
type ListQuery struct {
	Search *string `form:"search"`
	Sort   string  `form:"sort"`
	Page   *int    `form:"page"`
}

// applyListQuery maps ?search=, ?sort= and ?page= onto the list. A freshly
// opened list without a search restores the last registered filter.
func applyListQuery[E any](r *http.Request, l listEngine[E], created bool) error {
	ctx := r.Context()
	q, err := composables.UseQuery(&ListQuery{}, r)
	if err != nil {
		return errors.Wrap(crud.ErrInvalidPage, err.Error())
	}
	acted := false
	switch {
	case q.Search != nil:
		if _, err := l.Search(ctx, *q.Search); err != nil {
			return err
		}
		acted = true
	case created:
		if _, err := l.Restore(ctx); err != nil {
			return err
		}
		acted = true
	}
	if q.Sort != "" {
		if _, err := l.Sort(ctx, q.Sort); err != nil {
			return err
		}
		acted = true
	}
	if q.Page != nil {
		if _, err := l.GoTo(ctx, *q.Page); err != nil {
			return err
		}
		acted = true
	}
	if !acted {
		_, err := l.Refresh(ctx)
		return err
	}
	return nil
}

func (c *EmployeeController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	sess, err := composables.UseSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, _ := c.list(sess)
	entity, ok := l.Find(id)
	if !ok {
		if entity, err = c.employeeService.GetByID(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
	}
	deleted, err := l.Delete(r.Context(), entity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, &deleteResult[viewmodels.Employee]{
		Deleted: deleted,
		Page:    l.View(),
	})
}

type deleteResult[T any] struct {
	Deleted bool                    `json:"deleted"`
	Page    *viewmodels.ListPage[T] `json:"page"`
}

// Export streams every employee matching the list's current search as XLSX.
func (c *EmployeeController) Export(w http.ResponseWriter, r *http.Request) {
	sess, err := composables.UseSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, _ := c.list(sess)
	state := l.State()
	query := crud.SearchQuery[employee.Filter]{
		Search: state.Search,
		Filter: employee.FilterBySearch(state.Search),
		Sort:   state.Sort,
	}

	var buf bytes.Buffer
	n, err := c.exportService.ExportEmployees(r.Context(), &buf, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	composables.UseLogger(r.Context()).WithField("rows", n).Info("employees exported")
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="employees.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type OpenFormQuery struct {
	ID int64 `form:"id"`
}

// OpenForm opens an employee form on the session: a new employee, or the
// stored one when ?id= is given.
func (c *EmployeeController) OpenForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := composables.UseSession(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := composables.UseQuery(&OpenFormQuery{}, r)
	if err != nil {
		badRequest(w, r, errors.Wrap(err, "parse id"))
		return
	}
	entity := employee.Employee{}
	if q.ID != 0 {
		if entity, err = c.employeeService.GetByID(ctx, q.ID); err != nil {
			writeError(w, r, err)
			return
		}
	}

	formID := uuid.NewString()
	channel := application.FormChannel(sess.ID, formID)
	hub := c.app.Websocket()
	logger := composables.UseLogger(ctx)
	form := components.NewEmployeeForm(ctx, components.EmployeeFormOptions{
		ID:        formID,
		Entity:    entity,
		Employees: c.employeeService,
		Addresses: c.addressService,
		Staffs:    c.staffService,
		Notifier:  c.notifier,
		History:   sess,
		Debounce:  c.settings.Debounce,
		Publish: func(result viewmodels.LookupResult) {
			if hub == nil {
				return
			}
			if err := hub.Broadcast(channel, result); err != nil {
				logger.WithError(err).Warn("failed to push lookup result")
			}
		},
		MaxPhotoSize: c.settings.MaxUploadSize,
	})
	sess.Attach(formID, form)
	logger.WithField("form", formID).Debug("employee form opened")
	_ = httpapi.Respond(w, r, http.StatusCreated, form.View())
}
