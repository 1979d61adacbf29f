package user

import "context"

type AuthRepository interface {
	SignIn(ctx context.Context, credentials User) (Token, error)
}
