package notify

import (
	"github.com/sirupsen/logrus"

	"github.com/cams7/cadferias/pkg/eventbus"
	"github.com/cams7/cadferias/pkg/session"
)

// Router applies notification events to the sessions they belong to.
type Router struct {
	store  *session.Store
	logger *logrus.Logger
}

func NewRouter(store *session.Store, logger *logrus.Logger) *Router {
	return &Router{store: store, logger: logger}
}

// Subscribe wires the router to bus and returns the function that detaches
// it.
func (r *Router) Subscribe(bus eventbus.EventBus) func() {
	unsubscribers := []func(){
		bus.Subscribe(r.onAlert),
		bus.Subscribe(r.onFilter),
		bus.Subscribe(r.onReset),
		bus.Subscribe(r.onError),
	}
	return func() {
		for _, u := range unsubscribers {
			u()
		}
	}
}

func (r *Router) session(id string) (*session.Session, bool) {
	if id == "" {
		return nil, false
	}
	return r.store.Lookup(id)
}

func (r *Router) onAlert(ev *AlertAdded) {
	if sess, ok := r.session(ev.SessionID); ok {
		sess.PushAlert(ev.Alert)
	}
}

func (r *Router) onFilter(ev *FilterRegistered) {
	if sess, ok := r.session(ev.SessionID); ok {
		sess.SetFilter(ev.FilterType, ev.Filter)
	}
}

func (r *Router) onReset(ev *SearchesReset) {
	if sess, ok := r.session(ev.SessionID); ok {
		sess.ResetFilters()
	}
}

func (r *Router) onError(ev *ErrorRaised) {
	entry := r.logger.WithFields(logrus.Fields{
		"session":   ev.SessionID,
		"type":      ev.Type,
		"exception": ev.Exception,
	})
	if ev.SessionExpired() {
		entry.Info("backend session expired")
		if sess, ok := r.session(ev.SessionID); ok {
			sess.Logout()
			sess.PushAlert(session.Alert{Type: session.AlertWarning, Title: ev.Type, Message: ev.Message})
		}
		return
	}
	entry.WithField("message", ev.Message).Warn("backend error raised")
	if sess, ok := r.session(ev.SessionID); ok {
		sess.PushAlert(session.Alert{Type: session.AlertDanger, Title: ev.Type, Message: ev.Message})
	}
}
