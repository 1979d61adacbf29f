// Package components holds the session-owned views of the hrm module. Each
// one wraps a generic crud engine with the entity specifics and lives until
// the browser closes it or the session expires.
package components

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
	"github.com/cams7/cadferias/modules/hrm/domain/value_objects/address"
	"github.com/cams7/cadferias/modules/hrm/presentation/viewmodels"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/hateoas"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/lookup"
	"github.com/cams7/cadferias/pkg/notify"
	"github.com/cams7/cadferias/pkg/shared"
)

const (
	EmployeesPath = "/hrm/employees"

	FieldState = "state"
	FieldCity  = "city"
	FieldStaff = "staff"

	photoField          = "photo"
	defaultMaxPhotoSize = 5 << 20
)

var (
	ErrUnsupportedPhoto = errors.New("photo must be a png or jpeg image")
	ErrPhotoTooLarge    = errors.New("photo is too large")
	ErrUnknownLookup    = errors.New("unknown lookup field")
)

type EmployeeFormOptions struct {
	ID        string
	Entity    employee.Employee
	Employees *services.EmployeeService
	Addresses *services.AddressService
	Staffs    *services.StaffService
	Notifier  *notify.Notifier
	History   crud.History
	Debounce  time.Duration
	// Publish pushes lookup results to the browser, e.g. over the form's
	// websocket channel.
	Publish      func(viewmodels.LookupResult)
	MaxPhotoSize int64
}

type EmployeeForm struct {
	opts   EmployeeFormOptions
	ctx    context.Context
	url    string
	logger *logrus.Entry
	form   *crud.Form[employee.Employee]

	states *lookup.Cached[address.StateVO]
	cities *lookup.Cached[address.CityVO]
	state  *lookup.Field[address.StateVO]
	city   *lookup.Field[address.CityVO]
	staff  *lookup.Field[staff.Staff]

	mu           sync.Mutex
	draft        employee.FormDTO
	photoChanged bool
	errors       map[string]string
	photos       sync.WaitGroup

	resultsMu sync.Mutex
	results   map[string]viewmodels.LookupResult
}

func EmployeeURL(e employee.Employee) string {
	if !e.Persisted() {
		return EmployeesPath + "/new"
	}
	return fmt.Sprintf("%s/%d", EmployeesPath, e.EntityID)
}

// NewEmployeeForm opens the form on ctx's session. Lookups keep ctx's values
// (session, localizer, logger) but not its cancellation, so they outlive the
// request that opened the form.
func NewEmployeeForm(ctx context.Context, opts EmployeeFormOptions) *EmployeeForm {
	if opts.MaxPhotoSize <= 0 {
		opts.MaxPhotoSize = defaultMaxPhotoSize
	}
	base := context.WithoutCancel(ctx)
	f := &EmployeeForm{
		opts:    opts,
		ctx:     base,
		url:     EmployeeURL(opts.Entity),
		logger:  composables.UseLogger(ctx).WithField("form", opts.ID),
		draft:   *employee.NewFormDTO(opts.Entity),
		results: map[string]viewmodels.LookupResult{},
		states:  lookup.NewCached(opts.Addresses.States),
		cities:  lookup.NewCached(opts.Addresses.Cities),
	}
	f.form = crud.NewForm(crud.FormOptions[employee.Employee]{
		Entity:           opts.Entity,
		ID:               employee.ID,
		Links:            employee.Links,
		Submit:           f.submit,
		Route:            EmployeeURL,
		ListPath:         EmployeesPath,
		URL:              f.url,
		SearchRel:        hateoas.RelGetBySearch,
		DetailRel:        hateoas.RelGetWithAuditByID,
		UpdateRel:        hateoas.RelUpdate,
		DefaultTooltip:   intl.Localize(ctx, "Employees.Form.SubmitTooltip", nil),
		LeaveTitle:       intl.Localize(ctx, "Forms.Leave.Title", nil),
		LeaveMessage:     intl.Localize(ctx, "Forms.Leave.Message", nil),
		Confirmer:        composables.RequestConfirmer{},
		Navigator:        composables.RequestNavigator{},
		History:          opts.History,
		OnSessionExpired: opts.Notifier.OnSessionExpired(ctx),
		Logger:           f.logger,
	})

	f.state = lookup.NewField(base, lookup.Options[address.StateVO]{
		Name:     FieldState,
		Debounce: opts.Debounce,
		Search:   f.searchStates,
		Sink:     sink[address.StateVO](f),
		OnError:  f.raise,
	})
	f.city = lookup.NewField(base, lookup.Options[address.CityVO]{
		Name:     FieldCity,
		Debounce: opts.Debounce,
		Search:   f.searchCities,
		Guard:    f.hasState,
		Sink:     sink[address.CityVO](f),
		OnError:  f.raise,
	})
	f.staff = lookup.NewField(base, lookup.Options[staff.Staff]{
		Name:      FieldStaff,
		Debounce:  opts.Debounce,
		Search:    opts.Staffs.FindByName,
		Normalize: lookup.Trim,
		Sink:      sink[staff.Staff](f),
		OnError:   f.raise,
	})
	f.seed(opts.Entity)
	return f
}

func sink[T any](f *EmployeeForm) func(lookup.Result[T]) {
	return func(r lookup.Result[T]) {
		f.deliver(viewmodels.LookupResult{Field: r.Field, Query: r.Query, Items: r.Items, Seed: r.Seed})
	}
}

func (f *EmployeeForm) deliver(result viewmodels.LookupResult) {
	f.resultsMu.Lock()
	f.results[result.Field] = result
	f.resultsMu.Unlock()
	if f.opts.Publish != nil {
		f.opts.Publish(result)
	}
}

func (f *EmployeeForm) forget(field string) {
	f.resultsMu.Lock()
	defer f.resultsMu.Unlock()
	delete(f.results, field)
}

func (f *EmployeeForm) raise(err error) {
	f.logger.WithError(err).Warn("lookup failed")
	f.opts.Notifier.RaiseError(f.ctx, err)
}

func (f *EmployeeForm) seed(e employee.Employee) {
	if acronym := e.Address.State; acronym != "" {
		f.state.Seed(func(ctx context.Context) (address.StateVO, bool, error) {
			states, err := f.states.Get(ctx)
			if err != nil {
				return address.StateVO{}, false, err
			}
			state, ok := address.FindState(states, acronym)
			return state, ok, nil
		})
	}
	if name, acronym := e.Address.City, e.Address.State; name != "" && acronym != "" {
		f.city.Seed(func(ctx context.Context) (address.CityVO, bool, error) {
			state, ok, err := f.findState(ctx, acronym)
			if err != nil || !ok {
				return address.CityVO{}, false, err
			}
			cities, err := f.cities.Get(ctx)
			if err != nil {
				return address.CityVO{}, false, err
			}
			city, ok := address.FindCity(cities, state.ID, name)
			return city, ok, nil
		})
	}
	if e.Staff != nil && e.Staff.EntityID != 0 {
		stored := *e.Staff
		f.staff.Seed(func(context.Context) (staff.Staff, bool, error) {
			return stored, true, nil
		})
	}
}

func (f *EmployeeForm) findState(ctx context.Context, acronym string) (address.StateVO, bool, error) {
	states, err := f.states.Get(ctx)
	if err != nil {
		return address.StateVO{}, false, err
	}
	state, ok := address.FindState(states, acronym)
	return state, ok, nil
}

func (f *EmployeeForm) selectedState() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Address.State
}

func (f *EmployeeForm) hasState() bool {
	return f.selectedState() != ""
}

func (f *EmployeeForm) searchStates(ctx context.Context, query string) ([]address.StateVO, error) {
	states, err := f.states.Get(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.Filter(states, func(s address.StateVO) bool {
		return lookup.Contains(s.Name, query)
	}), nil
}

// searchCities only looks at cities of the currently selected state.
func (f *EmployeeForm) searchCities(ctx context.Context, query string) ([]address.CityVO, error) {
	state, ok, err := f.findState(ctx, f.selectedState())
	if err != nil {
		return nil, err
	}
	if !ok {
		return []address.CityVO{}, nil
	}
	cities, err := f.cities.Get(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.Filter(cities, func(c address.CityVO) bool {
		return c.StateID == state.ID && lookup.Contains(c.Name, query)
	}), nil
}

func (f *EmployeeForm) ID() string {
	return f.opts.ID
}

func (f *EmployeeForm) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

func (f *EmployeeForm) Draft() employee.FormDTO {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Update applies edited values keyed like "name" or "address.state" and
// marks each of them modified. Choosing another state clears the city.
func (f *EmployeeForm) Update(values url.Values) error {
	values = cloneValues(values)
	values.Del(photoField)
	if len(values) == 0 {
		return nil
	}

	f.mu.Lock()
	next := f.draft
	if err := shared.Decoder.Decode(&next, values); err != nil {
		f.mu.Unlock()
		return errors.Wrap(err, "decode employee form")
	}
	stateChanged := next.Address.State != f.draft.Address.State
	if stateChanged && values.Get("address.city") == "" {
		next.Address.City = ""
	}
	f.draft = next
	f.mu.Unlock()

	for key := range values {
		f.form.MarkModified(key)
	}
	if stateChanged {
		f.city.Reset()
		f.forget(FieldCity)
	}
	return nil
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Query feeds lookup text typed by the user.
func (f *EmployeeForm) Query(field, text string) error {
	switch field {
	case FieldState:
		f.state.Query(text)
	case FieldCity:
		f.city.Query(text)
	case FieldStaff:
		f.staff.Query(text)
	default:
		return errors.Wrap(ErrUnknownLookup, field)
	}
	return nil
}

// ChangePhoto decodes r into a data URL in the background. On success the
// preview is replaced and the photo is marked modified. The returned channel
// receives the outcome once.
func (f *EmployeeForm) ChangePhoto(r io.Reader) <-chan error {
	done := make(chan error, 1)
	f.photos.Add(1)
	go func() {
		defer f.photos.Done()
		done <- f.readPhoto(r)
	}()
	return done
}

func (f *EmployeeForm) readPhoto(r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, f.opts.MaxPhotoSize+1))
	if err != nil {
		return errors.Wrap(err, "read photo")
	}
	if int64(len(data)) > f.opts.MaxPhotoSize {
		return ErrPhotoTooLarge
	}
	mtype := mimetype.Detect(data)
	if !mtype.Is("image/png") && !mtype.Is("image/jpeg") {
		return errors.Wrap(ErrUnsupportedPhoto, mtype.String())
	}

	var buf bytes.Buffer
	buf.WriteString("data:")
	buf.WriteString(mtype.String())
	buf.WriteString(";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(data))

	f.mu.Lock()
	f.draft.Photo = buf.String()
	f.photoChanged = true
	f.mu.Unlock()
	f.form.MarkModified(photoField)
	return nil
}

func (f *EmployeeForm) PhotoURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft.Photo != "" {
		return f.draft.Photo
	}
	return employee.DefaultPhoto
}

// Submit saves the draft through the form engine. It reports false when
// there was nothing to do.
func (f *EmployeeForm) Submit(ctx context.Context) (bool, error) {
	return f.form.OnSubmit(ctx)
}

func (f *EmployeeForm) submit(ctx context.Context) (employee.Employee, error) {
	f.mu.Lock()
	draft := f.draft
	photoChanged := f.photoChanged
	f.mu.Unlock()

	f.form.ResetValidation()
	if errs, ok := draft.Ok(ctx); !ok {
		for _, field := range employee.Fields {
			f.form.SetValidation(field, errs[field] != "")
		}
		f.setErrors(errs)
		return employee.Employee{}, &crud.ValidationError{Fields: errs}
	}
	f.setErrors(nil)

	stored := f.form.Entity()
	entity, err := draft.ToEntity(stored, photoChanged)
	if err != nil {
		return employee.Employee{}, err
	}
	saved, err := f.opts.Employees.Save(ctx, entity)
	if err != nil {
		f.opts.Notifier.RaiseError(ctx, err)
		return employee.Employee{}, err
	}

	f.mu.Lock()
	f.photoChanged = false
	if !stored.Persisted() {
		f.draft.EmployeeRegistration = saved.EmployeeRegistration
		f.url = EmployeeURL(saved)
	}
	f.mu.Unlock()

	data := map[string]any{"Name": saved.Name}
	if stored.Persisted() {
		f.opts.Notifier.AddSuccessAlert(ctx,
			intl.Localize(ctx, "Employees.Alerts.UpdatedTitle", nil),
			intl.Localize(ctx, "Employees.Alerts.UpdatedMessage", data))
	} else {
		f.opts.Notifier.AddSuccessAlert(ctx,
			intl.Localize(ctx, "Employees.Alerts.CreatedTitle", nil),
			intl.Localize(ctx, "Employees.Alerts.CreatedMessage", data))
	}
	return saved, nil
}

func (f *EmployeeForm) setErrors(errs map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = errs
}

// Leave is the navigation guard.
func (f *EmployeeForm) Leave(ctx context.Context) (bool, error) {
	return f.form.UnchangedData(ctx)
}

func (f *EmployeeForm) OnList(ctx context.Context) {
	f.form.OnList(ctx)
}

func (f *EmployeeForm) OnDetails(ctx context.Context) {
	f.form.OnDetails(ctx)
}

func (f *EmployeeForm) Lookup(field string) (viewmodels.LookupResult, bool) {
	f.resultsMu.Lock()
	defer f.resultsMu.Unlock()
	r, ok := f.results[field]
	return r, ok
}

func (f *EmployeeForm) View() *viewmodels.EmployeeForm {
	f.mu.Lock()
	draft := f.draft
	errs := f.errors
	path := f.url
	f.mu.Unlock()

	entity := f.form.Entity()
	links := hateoas.Links(nil)
	if entity.Persisted() {
		links = entity.Links
	}
	classes := map[string]string{}
	for _, field := range append([]string{photoField}, employee.Fields...) {
		if class := f.form.ClassError(field); class != "" {
			classes[field] = class
		}
	}

	f.resultsMu.Lock()
	lookups := make(map[string]viewmodels.LookupResult, len(f.results))
	for k, v := range f.results {
		lookups[k] = v
	}
	f.resultsMu.Unlock()

	vm := &viewmodels.EmployeeForm{
		ID:              f.opts.ID,
		URL:             path,
		Draft:           draft,
		PhotoURL:        f.PhotoURL(),
		Persisted:       entity.Persisted(),
		Submitted:       f.form.Submitted(),
		Modified:        f.form.Modified(),
		Classes:         classes,
		Errors:          errs,
		SubmitTooltip:   f.form.SubmitTooltip(),
		Search:          links.Affordance(hateoas.RelGetBySearch),
		Details:         links.Affordance(hateoas.RelGetWithAuditByID),
		Update:          links.Affordance(hateoas.RelUpdate),
		ShowDetailsLink: f.form.ShowDetailsLink(),
		Lookups:         lookups,
	}
	if changes := f.form.Changes(); len(changes) > 0 {
		vm.Changes = changes
	}
	return vm
}

// Close stops the lookups and waits for a photo still being decoded.
func (f *EmployeeForm) Close() {
	f.state.Close()
	f.city.Close()
	f.staff.Close()
	f.states.Close()
	f.cities.Close()
	f.form.Close()
	f.photos.Wait()
}
