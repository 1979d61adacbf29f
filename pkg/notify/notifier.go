// Package notify is the typed event channel views use to raise alerts,
// register list filters and report backend errors. Events travel on the
// application event bus and Router applies them to the owning session.
package notify

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/eventbus"
	"github.com/cams7/cadferias/pkg/session"
)

// BackendError is implemented by errors that carry the backend's
// {type, exception, message} payload.
type BackendError interface {
	error
	MessageType() string
	Exception() string
}

type Notifier struct {
	bus eventbus.EventBus
}

func NewNotifier(bus eventbus.EventBus) *Notifier {
	return &Notifier{bus: bus}
}

func sessionID(ctx context.Context) string {
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return ""
	}
	return sess.ID
}

func (n *Notifier) AddSuccessAlert(ctx context.Context, title, message string) {
	n.addAlert(ctx, session.AlertSuccess, title, message)
}

func (n *Notifier) AddErrorAlert(ctx context.Context, title, message string) {
	n.addAlert(ctx, session.AlertDanger, title, message)
}

func (n *Notifier) addAlert(ctx context.Context, kind session.AlertType, title, message string) {
	n.bus.Publish(&AlertAdded{
		SessionID: sessionID(ctx),
		Alert:     session.Alert{Type: kind, Title: title, Message: message},
	})
}

// RegisterFilter satisfies crud.FilterStore.
func (n *Notifier) RegisterFilter(ctx context.Context, filterType crud.FilterType, filter any) {
	n.AddFilter(ctx, filterType, filter)
}

func (n *Notifier) AddFilter(ctx context.Context, filterType crud.FilterType, filter any) {
	n.bus.Publish(&FilterRegistered{
		SessionID:  sessionID(ctx),
		FilterType: filterType,
		Filter:     filter,
	})
}

func (n *Notifier) LastFilter(ctx context.Context, filterType crud.FilterType) (any, bool) {
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return nil, false
	}
	return sess.Filter(filterType)
}

func (n *Notifier) ResetAllSearches(ctx context.Context) {
	n.bus.Publish(&SearchesReset{SessionID: sessionID(ctx)})
}

// RaiseError publishes err on the error stream. Backend errors keep their
// type and exception so subscribers can react to expired sessions.
func (n *Notifier) RaiseError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	ev := &ErrorRaised{SessionID: sessionID(ctx), Type: TypeDanger, Message: err.Error()}
	var backendErr BackendError
	if errors.As(err, &backendErr) {
		ev.Type = backendErr.MessageType()
		ev.Exception = backendErr.Exception()
	}
	n.bus.Publish(ev)
}

// OnSessionExpired returns a subscription function for crud.FormOptions that
// only fires for expired-token warnings of the session in ctx.
func (n *Notifier) OnSessionExpired(ctx context.Context) func(handler func()) func() {
	id := sessionID(ctx)
	return func(handler func()) func() {
		return n.bus.Subscribe(func(ev *ErrorRaised) {
			if ev.SessionID == id && ev.SessionExpired() {
				handler()
			}
		})
	}
}
