package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/vacation"
	"github.com/cams7/cadferias/modules/hrm/presentation/components"
	"github.com/cams7/cadferias/modules/hrm/presentation/viewmodels"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/notify"
	"github.com/cams7/cadferias/pkg/session"
	"github.com/cams7/cadferias/pkg/shared"
)

type VacationController struct {
	app             application.Application
	settings        Settings
	vacationService *services.VacationService
	notifier        *notify.Notifier
	basePath        string
}

func NewVacationController(app application.Application, settings Settings) application.Controller {
	return &VacationController{
		app:             app,
		settings:        settings,
		vacationService: app.Service(services.VacationService{}).(*services.VacationService),
		notifier:        app.Service(notify.Notifier{}).(*notify.Notifier),
		basePath:        "/hrm/vacations",
	}
}

func (c *VacationController) Key() string {
	return c.basePath
}

func (c *VacationController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(authenticated()...)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *VacationController) list(sess *session.Session) (*components.VacationList, bool) {
	if existing, ok := sess.Component(components.VacationListID); ok {
		if l, ok := existing.(*components.VacationList); ok {
			return l, false
		}
	}
	l := components.NewVacationList(components.VacationListOptions{
		Vacations: c.vacationService,
		Notifier:  c.notifier,
		Confirmer: composables.RequestConfirmer{},
		PageSize:  c.settings.PageSize,
	})
	sess.Attach(components.VacationListID, l)
	return l, true
}

func (c *VacationController) List(w http.ResponseWriter, r *http.Request) {
	sess, err := composables.UseSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, created := c.list(sess)
	if err := applyListQuery[vacation.Vacation](r, l.List, created); err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, l.View())
}

// Delete only removes vacations shown on the current page; their employee
// name is needed for the prompt.
func (c *VacationController) Delete(w http.ResponseWriter, r *http.Request) {
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
		_ = httpapi.WriteError(w, r, http.StatusNotFound, httpapi.ErrCodeNotFound, "vacation not on the current page")
		return
	}
	deleted, err := l.Delete(r.Context(), entity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, &deleteResult[viewmodels.Vacation]{
		Deleted: deleted,
		Page:    l.View(),
	})
}
