package composables

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/cams7/cadferias/pkg/constants"
)

// ConfirmHeader carries the user's answer to a confirmation prompt. The
// "confirm" query parameter does the same for plain links.
const ConfirmHeader = "X-Confirm"

type Prompt struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Interaction collects what a handler asked of the user during one request:
// the redirect it wants and the confirmation it needed.
type Interaction struct {
	mu        sync.Mutex
	confirmed bool
	prompt    *Prompt
	redirect  string
}

func WithInteraction(ctx context.Context, confirmed bool) (context.Context, *Interaction) {
	i := &Interaction{confirmed: confirmed}
	return context.WithValue(ctx, constants.InteractKey, i), i
}

func UseInteraction(ctx context.Context) (*Interaction, bool) {
	i, ok := ctx.Value(constants.InteractKey).(*Interaction)
	return i, ok && i != nil
}

// Confirmed reads the answer sent with r. Anything but a true value is a no.
func Confirmed(r *http.Request) bool {
	raw := r.URL.Query().Get("confirm")
	if raw == "" {
		raw = r.Header.Get(ConfirmHeader)
	}
	ok, _ := strconv.ParseBool(raw)
	return ok
}

func (i *Interaction) confirm(title, message string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.confirmed {
		i.prompt = &Prompt{Title: title, Message: message}
	}
	return i.confirmed
}

func (i *Interaction) navigate(path string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.redirect = path
}

func (i *Interaction) Redirect() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.redirect
}

// Prompt returns the question left unanswered by this request, if any.
func (i *Interaction) Prompt() (Prompt, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.prompt == nil {
		return Prompt{}, false
	}
	return *i.prompt, true
}

// RequestConfirmer answers confirmations from the request in ctx.
type RequestConfirmer struct{}

func (RequestConfirmer) Confirm(ctx context.Context, title, message string) (bool, error) {
	i, ok := UseInteraction(ctx)
	if !ok {
		return false, nil
	}
	return i.confirm(title, message), nil
}

// RequestNavigator records the redirect on the request in ctx.
type RequestNavigator struct{}

func (RequestNavigator) Navigate(ctx context.Context, path string) {
	if i, ok := UseInteraction(ctx); ok {
		i.navigate(path)
	}
}
