package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// Provide stores value under key in every request context.
func Provide(key interface{}, value interface{}) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				ctx := context.WithValue(r.Context(), key, value)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}
