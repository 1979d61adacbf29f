package composables

import (
	"context"

	"github.com/cams7/cadferias/pkg/constants"
	"github.com/cams7/cadferias/pkg/session"
)

func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, constants.SessionKey, sess)
}

func UseSession(ctx context.Context) (*session.Session, error) {
	sess, ok := ctx.Value(constants.SessionKey).(*session.Session)
	if !ok || sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

// UseToken returns the backend bearer token of the current session.
func UseToken(ctx context.Context) string {
	sess, err := UseSession(ctx)
	if err != nil {
		return ""
	}
	return sess.Token()
}
