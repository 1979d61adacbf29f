package httpapi

import (
	"net/http"

	"github.com/cams7/cadferias/pkg/composables"
)

// RedirectHeader tells htmx clients to navigate.
const RedirectHeader = "HX-Redirect"

// Response wraps handler data with what the handler asked of the browser.
type Response struct {
	Data     any                 `json:"data,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
	Confirm  *composables.Prompt `json:"confirm,omitempty"`
}

// Respond writes data together with the redirect and the unanswered prompt
// recorded on the request's interaction.
func Respond(w http.ResponseWriter, r *http.Request, status int, data any) error {
	resp := &Response{Data: data}
	if i, ok := composables.UseInteraction(r.Context()); ok {
		resp.Redirect = i.Redirect()
		if prompt, asked := i.Prompt(); asked {
			resp.Confirm = &prompt
		}
	}
	if resp.Redirect != "" {
		w.Header().Set(RedirectHeader, resp.Redirect)
	}
	return WriteJSON(w, status, resp)
}
