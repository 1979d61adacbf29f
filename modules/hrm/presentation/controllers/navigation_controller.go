package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/types"
)

// NavigationController serves the localized menu the visitor may see.
type NavigationController struct {
	app   application.Application
	items []types.NavigationItem
}

func NewNavigationController(app application.Application, items []types.NavigationItem) application.Controller {
	return &NavigationController{app: app, items: items}
}

func (c *NavigationController) Key() string {
	return "/navigation"
}

func (c *NavigationController) Register(r *mux.Router) {
	r.HandleFunc("/navigation", c.List).Methods(http.MethodGet)
}

func (c *NavigationController) List(w http.ResponseWriter, r *http.Request) {
	authenticated := false
	if sess, err := composables.UseSession(r.Context()); err == nil {
		authenticated = sess.Authenticated()
	}
	localize := localizer(r.Context())
	out := make([]types.NavigationItem, 0, len(c.items))
	for _, item := range c.items {
		if visible, ok := item.Visible(authenticated); ok {
			out = append(out, visible.Localize(localize))
		}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func localizer(ctx context.Context) func(id string) string {
	return func(id string) string {
		return intl.Localize(ctx, id, nil)
	}
}
