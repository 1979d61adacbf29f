package notify

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/eventbus"
	"github.com/cams7/cadferias/pkg/session"
)

type expiredErr struct{}

func (expiredErr) Error() string       { return "token expired" }
func (expiredErr) MessageType() string { return TypeWarning }
func (expiredErr) Exception() string   { return ExceptionExpiredJWT }

func setup(t *testing.T) (*Notifier, *session.Store, context.Context) {
	t.Helper()
	logger := logrus.New()
	bus := eventbus.NewEventPublisher(logger)
	store := session.NewStore(session.StoreOptions{Logger: logger})
	detach := NewRouter(store, logger).Subscribe(bus)
	t.Cleanup(detach)

	sess := store.Create()
	return NewNotifier(bus), store, composables.WithSession(context.Background(), sess)
}

func TestNotifier_AlertsReachSession(t *testing.T) {
	n, _, ctx := setup(t)
	n.AddSuccessAlert(ctx, "Employee created", "Ana was created")
	n.AddErrorAlert(ctx, "Failure", "backend down")

	sess, err := composables.UseSession(ctx)
	require.NoError(t, err)
	alerts := sess.DrainAlerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, session.AlertSuccess, alerts[0].Type)
	assert.Equal(t, session.AlertDanger, alerts[1].Type)
}

func TestNotifier_FilterStore(t *testing.T) {
	n, _, ctx := setup(t)
	var store crud.FilterStore = n

	_, ok := store.LastFilter(ctx, crud.FilterVacation)
	assert.False(t, ok)

	store.RegisterFilter(ctx, crud.FilterVacation, "ana")
	f, ok := store.LastFilter(ctx, crud.FilterVacation)
	require.True(t, ok)
	assert.Equal(t, "ana", f)

	n.ResetAllSearches(ctx)
	_, ok = store.LastFilter(ctx, crud.FilterVacation)
	assert.False(t, ok)
}

func TestNotifier_OnSessionExpired(t *testing.T) {
	n, store, ctx := setup(t)
	other := composables.WithSession(context.Background(), store.Create())

	calls := 0
	unsubscribe := n.OnSessionExpired(ctx)(func() { calls++ })

	n.RaiseError(ctx, errors.New("plain failure"))
	n.RaiseError(other, errors.Wrap(expiredErr{}, "save employee"))
	assert.Zero(t, calls)

	sess, _ := composables.UseSession(ctx)
	sess.Authenticate("ana@mail.com", "jwt")
	n.RaiseError(ctx, errors.Wrap(expiredErr{}, "save employee"))
	assert.Equal(t, 1, calls)
	assert.False(t, sess.Authenticated())

	unsubscribe()
	n.RaiseError(ctx, expiredErr{})
	assert.Equal(t, 1, calls)
}

func TestNotifier_NoSessionIsDropped(t *testing.T) {
	n, _, _ := setup(t)
	require.NotPanics(t, func() {
		n.AddSuccessAlert(context.Background(), "x", "y")
		n.RaiseError(context.Background(), nil)
	})
}
