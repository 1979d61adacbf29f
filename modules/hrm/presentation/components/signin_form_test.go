package components_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/modules/hrm/presentation/components"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/session"
)

func (h *harness) signinForm(auth user.AuthRepository) *components.SigninForm {
	return components.NewSigninForm(components.SigninFormOptions{
		Auth:     services.NewAuthService(auth),
		Notifier: h.notifier,
	})
}

func TestSigninForm_SuccessGoesHomeAndResetsSearches(t *testing.T) {
	h := newHarness(t)
	h.sess.SetFilter(crud.FilterEmployee, "stale")
	form := h.signinForm(stubAuth{})
	ctx, interaction := h.request(false)

	err := form.Submit(ctx, &user.SignInDTO{Email: "ana@example.com", Password: "secret"})

	require.NoError(t, err)
	assert.True(t, h.sess.Authenticated())
	assert.Equal(t, components.HomePath, interaction.Redirect())
	_, ok := h.sess.Filter(crud.FilterEmployee)
	assert.False(t, ok)
	assert.Empty(t, h.sess.DrainAlerts())
}

func TestSigninForm_FailureAlertsAndStays(t *testing.T) {
	h := newHarness(t)
	form := h.signinForm(stubAuth{err: errBackend})
	ctx, interaction := h.request(false)

	err := form.Submit(ctx, &user.SignInDTO{Email: "ana@example.com", Password: "wrong"})

	require.ErrorIs(t, err, errBackend)
	assert.False(t, h.sess.Authenticated())
	assert.Empty(t, interaction.Redirect())
	alerts := h.sess.DrainAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, session.AlertDanger, alerts[0].Type)
	assert.Equal(t, "Sign-in failed", alerts[0].Title)

	h.sess.Authenticate("ana@example.com", "jwt")
	assert.Empty(t, interaction.Redirect(), "a failed attempt leaves no pending redirect")
}

func TestSigninForm_InvalidCredentials(t *testing.T) {
	h := newHarness(t)
	form := h.signinForm(stubAuth{})
	ctx, _ := h.request(false)

	err := form.Submit(ctx, &user.SignInDTO{Email: "not-an-email"})

	var validation *crud.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "email")
	assert.Contains(t, validation.Fields, "password")
	assert.False(t, h.sess.Authenticated())
}

func TestSigninForm_NeverBlocksLeaving(t *testing.T) {
	h := newHarness(t)
	ctx, _ := h.request(false)
	ok, err := h.signinForm(stubAuth{}).UnchangedData(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}
