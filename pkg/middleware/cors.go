package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func Cors(allowOrigins ...string) mux.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: allowOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Accept-Language",
			"Content-Type",
			"X-Confirm",
			"X-Request-Id",
			"HX-Request",
			"HX-Current-URL",
			"HX-Target",
			"HX-Trigger",
		},
		ExposedHeaders:   []string{"HX-Redirect", "X-Request-Id", "X-Trace-Id", "X-RateLimit-Remaining"},
		AllowCredentials: true,
	})
	return c.Handler
}
