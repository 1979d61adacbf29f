package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/pkg/composables"
)

type AuthService struct {
	repo user.AuthRepository
}

func NewAuthService(repo user.AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// SignIn exchanges the credentials for a backend token and stores it on the
// session in ctx, which fires the session's authenticated callbacks.
func (s *AuthService) SignIn(ctx context.Context, credentials user.User) error {
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return err
	}
	token, err := s.repo.SignIn(ctx, credentials)
	if err != nil {
		return err
	}
	sess.Authenticate(token.Email, token.Token)
	composables.UseLogger(ctx).WithField("email", token.Email).Info("user signed in")
	return nil
}

func (s *AuthService) SignOut(ctx context.Context) error {
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return errors.Wrap(err, "sign out")
	}
	sess.Logout()
	return nil
}
