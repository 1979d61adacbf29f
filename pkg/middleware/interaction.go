package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/pkg/composables"
)

// ProvideInteraction attaches the per-request confirmation answer and
// redirect holder used by composables.RequestConfirmer and
// composables.RequestNavigator.
func ProvideInteraction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := composables.WithInteraction(r.Context(), composables.Confirmed(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
