package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/modules/hrm/presentation/components"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/notify"
)

type LoginController struct {
	app         application.Application
	authService *services.AuthService
	notifier    *notify.Notifier
}

func NewLoginController(app application.Application) application.Controller {
	return &LoginController{
		app:         app,
		authService: app.Service(services.AuthService{}).(*services.AuthService),
		notifier:    app.Service(notify.Notifier{}).(*notify.Notifier),
	}
}

func (c *LoginController) Key() string {
	return "/login"
}

func (c *LoginController) Register(r *mux.Router) {
	r.HandleFunc("/login", c.Post).Methods(http.MethodPost)
	r.HandleFunc("/logout", c.Logout).Methods(http.MethodPost)
}

func (c *LoginController) Post(w http.ResponseWriter, r *http.Request) {
	dto := &user.SignInDTO{}
	if err := decode(r, dto); err != nil {
		badRequest(w, r, err)
		return
	}
	form := components.NewSigninForm(components.SigninFormOptions{
		Auth:     c.authService,
		Notifier: c.notifier,
	})
	if err := form.Submit(r.Context(), dto); err != nil {
		writeError(w, r, err)
		return
	}
	sess, _ := composables.UseSession(r.Context())
	_ = httpapi.Respond(w, r, http.StatusOK, map[string]any{"email": sess.Email()})
}

func (c *LoginController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.authService.SignOut(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
