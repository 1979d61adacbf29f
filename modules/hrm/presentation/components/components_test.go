package components_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/modules/hrm/domain/value_objects/address"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/eventbus"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/notify"
	"github.com/cams7/cadferias/pkg/session"
)

var errBackend = errors.New("backend unavailable")

type memoryEmployees struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]employee.Employee
	saveErr error
}

func newMemoryEmployees(seed ...employee.Employee) *memoryEmployees {
	m := &memoryEmployees{items: map[int64]employee.Employee{}}
	for _, e := range seed {
		m.items[e.EntityID] = e
		if e.EntityID > m.nextID {
			m.nextID = e.EntityID
		}
	}
	return m
}

func (m *memoryEmployees) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[id]
	if !ok {
		return employee.Employee{}, errors.New("not found")
	}
	return e, nil
}

func (m *memoryEmployees) Save(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return employee.Employee{}, m.saveErr
	}
	if e.EntityID == 0 {
		m.nextID++
		e.EntityID = m.nextID
		e.EmployeeRegistration = "R0001"
	}
	m.items[e.EntityID] = e
	return e, nil
}

func (m *memoryEmployees) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memoryEmployees) Search(ctx context.Context, q crud.SearchQuery[employee.Filter]) (crud.Page[employee.Employee], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]employee.Employee, 0, len(m.items))
	for _, e := range m.items {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EntityID < all[j].EntityID })
	start := min(q.Page*q.Size, len(all))
	end := min(start+q.Size, len(all))
	return crud.Page[employee.Employee]{
		Items:         all[start:end],
		Number:        q.Page,
		Size:          q.Size,
		TotalElements: int64(len(all)),
		TotalPages:    (len(all) + q.Size - 1) / q.Size,
	}, nil
}

func (m *memoryEmployees) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type fakeAddresses struct{}

func (fakeAddresses) AllStates(ctx context.Context) ([]address.StateVO, error) {
	return []address.StateVO{
		{ID: 1, Acronym: "MG", Name: "Minas Gerais"},
		{ID: 2, Acronym: "SP", Name: "São Paulo"},
	}, nil
}

func (fakeAddresses) AllCities(ctx context.Context) ([]address.CityVO, error) {
	return []address.CityVO{
		{ID: 10, Name: "Belo Horizonte", StateID: 1},
		{ID: 11, Name: "Betim", StateID: 1},
		{ID: 20, Name: "Campinas", StateID: 2},
	}, nil
}

type fakeStaffs struct{}

func (fakeStaffs) FindByName(ctx context.Context, name string) ([]staff.Staff, error) {
	return []staff.Staff{{EntityID: 2, Name: name}}, nil
}

type stubAuth struct {
	err error
}

func (s stubAuth) SignIn(ctx context.Context, credentials user.User) (user.Token, error) {
	if s.err != nil {
		return user.Token{}, s.err
	}
	return user.Token{Email: credentials.Email, Token: "jwt"}, nil
}

// harness is one signed-in browser session with the services wired to
// in-memory repositories.
type harness struct {
	bus       eventbus.EventBus
	store     *session.Store
	sess      *session.Session
	notifier  *notify.Notifier
	repo      *memoryEmployees
	employees *services.EmployeeService
	addresses *services.AddressService
	staffs    *services.StaffService
	localizer *i18n.Localizer
}

func newHarness(t *testing.T, seed ...employee.Employee) *harness {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	bus := eventbus.NewEventPublisher(nil)
	store := session.NewStore(session.StoreOptions{Logger: logger})
	t.Cleanup(notify.NewRouter(store, logger).Subscribe(bus))

	bundle := application.LoadBundle(language.English)
	data, err := os.ReadFile(filepath.Join("..", "locales", "en.toml"))
	require.NoError(t, err)
	bundle.MustParseMessageFileBytes(data, "en.toml")

	repo := newMemoryEmployees(seed...)
	return &harness{
		bus:       bus,
		store:     store,
		sess:      store.Create(),
		notifier:  notify.NewNotifier(bus),
		repo:      repo,
		employees: services.NewEmployeeService(repo, bus),
		addresses: services.NewAddressService(fakeAddresses{}),
		staffs:    services.NewStaffService(fakeStaffs{}),
		localizer: i18n.NewLocalizer(bundle, "en"),
	}
}

// request builds the context of one request; confirmed is the user's answer
// to any prompt.
func (h *harness) request(confirmed bool) (context.Context, *composables.Interaction) {
	ctx := composables.WithSession(context.Background(), h.sess)
	ctx = intl.WithLocalizer(ctx, h.localizer)
	return composables.WithInteraction(ctx, confirmed)
}
