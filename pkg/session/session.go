// Package session keeps per-browser presentation state: the backend token,
// pending alerts, stored list filters, visited pages and the open
// components that die with the session.
package session

import (
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/cams7/cadferias/pkg/crud"
)

type AlertType string

const (
	AlertSuccess AlertType = "SUCCESS"
	AlertInfo    AlertType = "INFO"
	AlertWarning AlertType = "WARNING"
	AlertDanger  AlertType = "DANGER"
)

type Alert struct {
	Type    AlertType `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// Component is anything a session owns until it is closed, e.g. an open
// form with running lookups.
type Component interface {
	Close()
}

const maxHistory = 20

type Session struct {
	ID string

	mu            sync.Mutex
	token         string
	email         string
	locale        language.Tag
	lastSeen      time.Time
	alerts        []Alert
	filters       map[crud.FilterType]any
	history       []string
	components    map[string]Component
	authenticated map[uint64]func()
	nextCallback  uint64
	closed        bool
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		lastSeen:   now,
		filters:    map[crud.FilterType]any{},
		components: map[string]Component{},
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// Locale is the language picked explicitly for this session, if any.
func (s *Session) Locale() (language.Tag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale, s.locale != language.Und
}

func (s *Session) SetLocale(tag language.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = tag
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Authenticate stores the backend token and fires every pending
// OnAuthenticated callback exactly once.
func (s *Session) Authenticate(email, token string) {
	s.mu.Lock()
	s.email = email
	s.token = token
	callbacks := s.authenticated
	s.authenticated = nil
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.email = ""
}

// OnAuthenticated runs fn once the session holds a token. It runs right away
// when it already does. The returned function drops a callback that has not
// fired yet.
func (s *Session) OnAuthenticated(fn func()) func() {
	s.mu.Lock()
	if s.token == "" {
		if s.authenticated == nil {
			s.authenticated = map[uint64]func(){}
		}
		s.nextCallback++
		id := s.nextCallback
		s.authenticated[id] = fn
		s.mu.Unlock()
		return func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.authenticated, id)
		}
	}
	s.mu.Unlock()
	fn()
	return func() {}
}

func (s *Session) PushAlert(alert Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
}

// DrainAlerts returns the pending alerts and forgets them.
func (s *Session) DrainAlerts() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.alerts
	s.alerts = nil
	if alerts == nil {
		alerts = []Alert{}
	}
	return alerts
}

func (s *Session) SetFilter(filterType crud.FilterType, filter any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[filterType] = filter
}

func (s *Session) Filter(filterType crud.FilterType) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.filters[filterType]
	return f, ok
}

func (s *Session) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = map[crud.FilterType]any{}
}

// Visit appends path to the history unless it is already the latest entry.
func (s *Session) Visit(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.history); n > 0 && s.history[n-1] == path {
		return
	}
	s.history = append(s.history, path)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
}

// HasPrevious reports whether previous was visited right before current.
func (s *Session) HasPrevious(previous, current string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.history) - 1; i > 0; i-- {
		if s.history[i] == current {
			return s.history[i-1] == previous
		}
	}
	return false
}

func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Attach registers a component under id. A closed session closes it right
// away.
func (s *Session) Attach(id string, c Component) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		c.Close()
		return
	}
	prev := s.components[id]
	s.components[id] = c
	s.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (s *Session) Component(id string) (Component, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.components[id]
	return c, ok
}

// Detach closes and forgets the component.
func (s *Session) Detach(id string) bool {
	s.mu.Lock()
	c, ok := s.components[id]
	delete(s.components, id)
	s.mu.Unlock()
	if ok {
		c.Close()
	}
	return ok
}

func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	components := s.components
	s.components = map[string]Component{}
	s.authenticated = nil
	s.mu.Unlock()

	for _, c := range components {
		c.Close()
	}
}
