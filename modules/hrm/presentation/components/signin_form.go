package components

import (
	"context"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/intl"
	"github.com/cams7/cadferias/pkg/notify"
)

// HomePath is where a successful sign-in lands.
const HomePath = "/home"

type SigninFormOptions struct {
	Auth      *services.AuthService
	Notifier  *notify.Notifier
	Navigator crud.Navigator
}

type SigninForm struct {
	opts SigninFormOptions
}

func NewSigninForm(opts SigninFormOptions) *SigninForm {
	if opts.Navigator == nil {
		opts.Navigator = composables.RequestNavigator{}
	}
	return &SigninForm{opts: opts}
}

// Submit validates the credentials and signs in. A one-shot subscription to
// the session's authenticated state redirects home and resets every stored
// search. Failures raise an error alert and are returned.
func (f *SigninForm) Submit(ctx context.Context, dto *user.SignInDTO) error {
	if errs, ok := dto.Ok(ctx); !ok {
		return &crud.ValidationError{Fields: errs}
	}
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return err
	}
	cancel := sess.OnAuthenticated(func() {
		f.opts.Notifier.ResetAllSearches(ctx)
		f.opts.Navigator.Navigate(ctx, HomePath)
	})
	if err := f.opts.Auth.SignIn(ctx, dto.ToEntity()); err != nil {
		cancel()
		f.opts.Notifier.AddErrorAlert(ctx, intl.Localize(ctx, "SignIn.Alerts.FailedTitle", nil), err.Error())
		return err
	}
	return nil
}

// UnchangedData never holds the user back on the sign-in page.
func (f *SigninForm) UnchangedData(context.Context) (bool, error) {
	return true, nil
}
