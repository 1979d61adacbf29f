package middleware

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/pkg/composables"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/session"
)

// CurrentURLHeader is sent by htmx with the page the browser is showing.
const CurrentURLHeader = "HX-Current-URL"

type SessionOptions struct {
	Store     *session.Store
	CookieKey string
	Secure    bool
}

// ProvideSession resolves the browser session from the cookie, creating a
// fresh one when it is missing or expired, and records the page the request
// came from in the session history.
func ProvideSession(opts SessionOptions) mux.MiddlewareFunc {
	if opts.CookieKey == "" {
		opts.CookieKey = "sid"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session
			if cookie, err := r.Cookie(opts.CookieKey); err == nil {
				sess, _ = opts.Store.Get(cookie.Value)
			}
			if sess == nil {
				sess = opts.Store.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     opts.CookieKey,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				composables.UseLogger(r.Context()).WithField("session", sess.ID).Debug("session created")
			}
			if current := currentPath(r); current != "" {
				sess.Visit(current)
			}
			ctx := composables.WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func currentPath(r *http.Request) string {
	raw := r.Header.Get(CurrentURLHeader)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}

// RequireAuthenticated rejects requests from sessions that never signed in
// or whose backend token was dropped.
func RequireAuthenticated() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := composables.UseSession(r.Context())
			if err != nil || !sess.Authenticated() {
				_ = httpapi.WriteError(w, r, http.StatusUnauthorized, httpapi.ErrCodeUnauthorized, "sign in required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
