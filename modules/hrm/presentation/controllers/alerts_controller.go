package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/session"
)

// AlertsController drains the alerts queued on the caller's session.
type AlertsController struct {
	app application.Application
}

func NewAlertsController(app application.Application) application.Controller {
	return &AlertsController{app: app}
}

func (c *AlertsController) Key() string {
	return "/alerts"
}

func (c *AlertsController) Register(r *mux.Router) {
	r.HandleFunc("/alerts", c.List).Methods(http.MethodGet)
}

func (c *AlertsController) List(w http.ResponseWriter, r *http.Request) {
	sess, err := composables.UseSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	alerts := sess.DrainAlerts()
	if alerts == nil {
		alerts = []session.Alert{}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": sess.Authenticated(),
		"alerts":        alerts,
	})
}
