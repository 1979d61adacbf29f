package api

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
)

type AuthRepository struct {
	client *Client
}

func NewAuthRepository(client *Client) user.AuthRepository {
	return &AuthRepository{client: client}
}

func (r *AuthRepository) SignIn(ctx context.Context, credentials user.User) (user.Token, error) {
	var token user.Token
	if err := r.client.Do(ctx, "auth.signin", http.MethodPost, "/auth/signin", nil, credentials, &token); err != nil {
		return user.Token{}, errors.Wrap(err, "sign in")
	}
	if token.Token == "" {
		return user.Token{}, errors.New("sign in: backend returned no token")
	}
	if token.Email == "" {
		token.Email = credentials.Email
	}
	return token, nil
}
