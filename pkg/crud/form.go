// Package crud holds the generic engines behind every entity form and list:
// submit guarding, leave confirmation, link-derived affordances, pagination,
// sorting and filter persistence. Entity specifics are injected as strategy
// functions.
package crud

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/wI2L/jsondiff"

	"github.com/cams7/cadferias/pkg/hateoas"
)

// ClassInvalid is the class a view puts on a field that failed validation.
const ClassInvalid = "is-invalid"

const (
	defaultLeaveTitle   = "Leave page"
	defaultLeaveMessage = "The form data was modified, do you really want to leave this page?"
)

type FormOptions[E any] struct {
	// Entity is the snapshot loaded before the form was opened.
	Entity E
	ID     func(E) int64
	Links  func(E) hateoas.Links
	// Submit persists the current draft and returns the saved entity.
	Submit func(ctx context.Context) (E, error)
	// Route maps a saved entity to its page. Used to navigate after a create
	// and to build the details path.
	Route    func(E) string
	ListPath string
	// URL is the page the form lives on.
	URL string

	SearchRel      string
	DetailRel      string
	UpdateRel      string
	DefaultTooltip string

	LeaveTitle   string
	LeaveMessage string

	Confirmer Confirmer
	Navigator Navigator
	History   History
	// OnSessionExpired subscribes to expired session warnings and returns the
	// matching unsubscribe function.
	OnSessionExpired func(handler func()) func()

	Logger *logrus.Entry
}

type Form[E any] struct {
	opts FormOptions[E]

	mu              sync.Mutex
	entity          E
	submitted       bool
	attempted       bool
	modified        map[string]bool
	validation      map[string]bool
	changes         jsondiff.Patch
	showDetailsLink bool
	unsubscribe     func()
}

func NewForm[E any](opts FormOptions[E]) *Form[E] {
	if opts.ID == nil {
		panic("crud: FormOptions.ID is required")
	}
	if opts.Submit == nil {
		panic("crud: FormOptions.Submit is required")
	}
	if opts.Links == nil {
		opts.Links = func(E) hateoas.Links { return nil }
	}
	if opts.LeaveTitle == "" {
		opts.LeaveTitle = defaultLeaveTitle
	}
	if opts.LeaveMessage == "" {
		opts.LeaveMessage = defaultLeaveMessage
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	f := &Form[E]{
		opts:       opts,
		entity:     opts.Entity,
		modified:   map[string]bool{},
		validation: map[string]bool{},
	}
	f.showDetailsLink = opts.History == nil || !opts.History.HasPrevious(opts.URL+"/details", opts.URL)
	if opts.OnSessionExpired != nil {
		f.unsubscribe = opts.OnSessionExpired(f.resetSubmitted)
	}
	return f
}

func (f *Form[E]) resetSubmitted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = false
}

// Entity returns the current snapshot.
func (f *Form[E]) Entity() E {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entity
}

func (f *Form[E]) Persisted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.persisted()
}

func (f *Form[E]) persisted() bool {
	return f.opts.ID(f.entity) != 0
}

func (f *Form[E]) Submitted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

func (f *Form[E]) MarkModified(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modified[field] = true
}

func (f *Form[E]) Modified() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.modified) > 0
}

func (f *Form[E]) IsModified(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.modified[field]
}

func (f *Form[E]) SetValidation(field string, hasError bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validation[field] = hasError
}

// ResetValidation forgets every field result, e.g. before a new validation
// pass.
func (f *Form[E]) ResetValidation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validation = map[string]bool{}
}

// ClassError returns ClassInvalid when any of the fields failed validation
// and the user already tried to submit.
func (f *Form[E]) ClassError(fields ...string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.attempted {
		return ""
	}
	for _, field := range fields {
		if f.validation[field] {
			return ClassInvalid
		}
	}
	return ""
}

// OnSubmit runs the submit strategy unless a submit is already running or the
// entity is persisted and nothing changed. It reports whether the strategy
// ran.
func (f *Form[E]) OnSubmit(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.submitted || (f.persisted() && len(f.modified) == 0) {
		f.mu.Unlock()
		return false, nil
	}
	f.submitted = true
	f.attempted = true
	wasNew := !f.persisted()
	before := f.entity
	modified := f.modified
	f.modified = map[string]bool{}
	f.mu.Unlock()

	saved, err := f.opts.Submit(ctx)
	if err != nil {
		f.mu.Lock()
		f.submitted = false
		for field := range modified {
			f.modified[field] = true
		}
		f.mu.Unlock()
		return true, err
	}

	patch, diffErr := jsondiff.Compare(before, saved)
	if diffErr != nil {
		f.opts.Logger.WithError(diffErr).Warn("failed to diff submitted entity")
	} else if len(patch) > 0 {
		f.opts.Logger.WithField("changes", patch.String()).Debug("entity saved")
	}

	f.mu.Lock()
	f.submitted = false
	f.entity = saved
	f.changes = patch
	f.mu.Unlock()

	if wasNew && f.opts.Route != nil && f.opts.Navigator != nil {
		if path := f.opts.Route(saved); path != "" {
			f.opts.Navigator.Navigate(ctx, path)
		}
	}
	return true, nil
}

// Changes returns the patch between the snapshot before the last successful
// submit and the entity the backend returned.
func (f *Form[E]) Changes() jsondiff.Patch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.changes
}

// UnchangedData is the navigation guard: true when the user may leave.
func (f *Form[E]) UnchangedData(ctx context.Context) (bool, error) {
	f.mu.Lock()
	unchanged := !f.submitted && len(f.modified) == 0
	f.mu.Unlock()
	if unchanged {
		return true, nil
	}
	if f.opts.Confirmer == nil {
		return false, nil
	}
	ok, err := f.opts.Confirmer.Confirm(ctx, f.opts.LeaveTitle, f.opts.LeaveMessage)
	if err != nil {
		return false, errors.Wrap(err, "confirm leave")
	}
	return ok, nil
}

// links are ignored until the entity has an id.
func (f *Form[E]) links() hateoas.Links {
	if !f.persisted() {
		return nil
	}
	return f.opts.Links(f.entity)
}

func (f *Form[E]) rel(name string) (hateoas.Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == "" {
		return hateoas.Link{}, false
	}
	return f.links().Get(name)
}

func (f *Form[E]) SearchRel() (hateoas.Link, bool) {
	return f.rel(f.opts.SearchRel)
}

func (f *Form[E]) DetailRel() (hateoas.Link, bool) {
	return f.rel(f.opts.DetailRel)
}

func (f *Form[E]) UpdateRel() (hateoas.Link, bool) {
	return f.rel(f.opts.UpdateRel)
}

func (f *Form[E]) SubmitTooltip() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	links := f.links()
	if len(links) == 0 {
		return f.opts.DefaultTooltip
	}
	return links.Title(f.opts.UpdateRel, f.opts.DefaultTooltip)
}

func (f *Form[E]) ShowDetailsLink() bool {
	return f.showDetailsLink
}

func (f *Form[E]) OnList(ctx context.Context) {
	if f.opts.Navigator != nil && f.opts.ListPath != "" {
		f.opts.Navigator.Navigate(ctx, f.opts.ListPath)
	}
}

func (f *Form[E]) OnDetails(ctx context.Context) {
	f.mu.Lock()
	entity := f.entity
	persisted := f.persisted()
	f.mu.Unlock()
	if !persisted || f.opts.Route == nil || f.opts.Navigator == nil {
		return
	}
	f.opts.Navigator.Navigate(ctx, f.opts.Route(entity)+"/details")
}

func (f *Form[E]) Close() {
	f.mu.Lock()
	unsubscribe := f.unsubscribe
	f.unsubscribe = nil
	f.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
