package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/modules/hrm/presentation/components"
	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/session"
)

const photoFormKey = "photo"

// LookupQuery is what the browser sends on a form websocket while the user
// types into a lookup.
type LookupQuery struct {
	Field string `json:"field"`
	Query string `json:"query"`
}

type EmployeeFormController struct {
	app      application.Application
	settings Settings
	basePath string
}

func NewEmployeeFormController(app application.Application, settings Settings) application.Controller {
	c := &EmployeeFormController{
		app:      app,
		settings: settings,
		basePath: "/hrm/forms",
	}
	if hub := app.Websocket(); hub != nil {
		hub.OnMessage(c.onMessage)
	}
	return c
}

func (c *EmployeeFormController) Key() string {
	return c.basePath
}

func (c *EmployeeFormController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath + "/{" + application.FormVar + "}").Subrouter()
	router.Use(authenticated()...)
	router.HandleFunc("", c.Get).Methods(http.MethodGet)
	router.HandleFunc("", c.Update).Methods(http.MethodPatch)
	router.HandleFunc("", c.Close).Methods(http.MethodDelete)
	router.HandleFunc("/photo", c.ChangePhoto).Methods(http.MethodPost)
	router.HandleFunc("/submit", c.Submit).Methods(http.MethodPost)
	router.HandleFunc("/leave", c.Leave).Methods(http.MethodGet)
	router.HandleFunc("/list", c.OnList).Methods(http.MethodPost)
	router.HandleFunc("/details", c.OnDetails).Methods(http.MethodPost)
	router.HandleFunc("/ws", c.Websocket).Methods(http.MethodGet)
}

func formFromSession(sess *session.Session, id string) (*components.EmployeeForm, bool) {
	component, ok := sess.Component(id)
	if !ok {
		return nil, false
	}
	form, ok := component.(*components.EmployeeForm)
	return form, ok
}

func (c *EmployeeFormController) form(w http.ResponseWriter, r *http.Request) (*components.EmployeeForm, *session.Session, bool) {
	sess, err := composables.UseSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return nil, nil, false
	}
	form, ok := formFromSession(sess, mux.Vars(r)[application.FormVar])
	if !ok {
		_ = httpapi.WriteError(w, r, http.StatusNotFound, httpapi.ErrCodeNotFound, "form not found")
		return nil, nil, false
	}
	return form, sess, true
}

func (c *EmployeeFormController) Get(w http.ResponseWriter, r *http.Request) {
	form, _, ok := c.form(w, r)
	if !ok {
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, form.View())
}

func (c *EmployeeFormController) Update(w http.ResponseWriter, r *http.Request) {
	form, _, ok := c.form(w, r)
	if !ok {
		return
	}
	values, err := formValues(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if err := form.Update(values); err != nil {
		badRequest(w, r, err)
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, form.View())
}

// Close tears the form down once the leave guard lets it go.
func (c *EmployeeFormController) Close(w http.ResponseWriter, r *http.Request) {
	form, sess, ok := c.form(w, r)
	if !ok {
		return
	}
	leave, err := form.Leave(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if leave {
		sess.Detach(form.ID())
	}
	_ = httpapi.Respond(w, r, http.StatusOK, map[string]bool{"closed": leave})
}

func (c *EmployeeFormController) Leave(w http.ResponseWriter, r *http.Request) {
	form, _, ok := c.form(w, r)
	if !ok {
		return
	}
	leave, err := form.Leave(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, map[string]bool{"unchanged": leave})
}

func (c *EmployeeFormController) ChangePhoto(w http.ResponseWriter, r *http.Request) {
	form, _, ok := c.form(w, r)
	if !ok {
		return
	}
	limit := c.settings.MaxUploadSize
	if limit <= 0 {
		limit = 32 << 20
	}
	if err := r.ParseMultipartForm(limit); err != nil {
		badRequest(w, r, errors.Wrap(err, "parse multipart form"))
		return
	}
	file, _, err := r.FormFile(photoFormKey)
	if err != nil {
		badRequest(w, r, errors.Wrap(err, "read photo"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		badRequest(w, r, errors.Wrap(err, "read photo"))
		return
	}

	select {
	case err = <-form.ChangePhoto(bytes.NewReader(data)):
	case <-r.Context().Done():
		err = r.Context().Err()
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, form.View())
}

func (c *EmployeeFormController) Submit(w http.ResponseWriter, r *http.Request) {
	form, _, ok := c.form(w, r)
	if !ok {
		return
	}
	if _, err := form.Submit(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	_ = httpapi.Respond(w, r, http.StatusOK, form.View())
}

func (c *EmployeeFormController) OnList(w http.ResponseWriter, r *http.Request) {
	form, _, ok := c.form(w, r)
	if !ok {
		return
	}
	form.OnList(r.Context())
	_ = httpapi.Respond(w, r, http.StatusOK, nil)
}

func (c *EmployeeFormController) OnDetails(w http.ResponseWriter, r *http.Request) {
	form, _, ok := c.form(w, r)
	if !ok {
		return
	}
	form.OnDetails(r.Context())
	_ = httpapi.Respond(w, r, http.StatusOK, nil)
}

// Websocket upgrades to the form channel lookup results are pushed on.
func (c *EmployeeFormController) Websocket(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := c.form(w, r); !ok {
		return
	}
	hub := c.app.Websocket()
	if hub == nil {
		_ = httpapi.WriteError(w, r, http.StatusNotImplemented, httpapi.ErrCodeInternal, "websocket disabled")
		return
	}
	hub.ServeHTTP(w, r)
}

func (c *EmployeeFormController) onMessage(ctx context.Context, conn application.Connection, message []byte) {
	logger := composables.UseLogger(ctx)
	var q LookupQuery
	if err := json.Unmarshal(message, &q); err != nil {
		logger.WithError(err).Debug("ignoring malformed lookup query")
		return
	}
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return
	}
	form, ok := formFromSession(sess, conn.FormID())
	if !ok {
		logger.Debug("lookup query for a closed form")
		return
	}
	if err := form.Query(q.Field, q.Query); err != nil {
		logger.WithError(err).Debug("ignoring lookup query")
	}
}
