package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/configuration"
	"github.com/cams7/cadferias/pkg/constants"
	"github.com/cams7/cadferias/pkg/httpapi"
	"github.com/cams7/cadferias/pkg/metrics"
	"github.com/cams7/cadferias/pkg/middleware"
	"github.com/cams7/cadferias/pkg/server"
)

// LoginPath is the only route the rate limiter guards.
const LoginPath = "/login"

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, loggerOptions(conf)),
		metrics.Instrument(),
		middleware.Provide(constants.AppKey, app),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(conf.Origins()...),
	}

	if conf.RateLimit.Enabled {
		var store limiter.Store
		var err error

		switch conf.RateLimit.Storage {
		case "redis":
			store, err = middleware.NewRedisStore(conf.RateLimit.RedisURL)
			if err != nil {
				options.Logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
				store = middleware.NewMemoryStore()
			}
		default:
			store = middleware.NewMemoryStore()
		}

		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: conf.RateLimit.LoginPerMinute,
				Store:             store,
				Paths:             []string{LoginPath},
			}),
		)
	}

	middlewares = append(middlewares,
		middleware.TracedMiddleware("session"),
		middleware.ProvideSession(middleware.SessionOptions{
			Store:     app.Sessions(),
			CookieKey: conf.Session.CookieKey,
			Secure:    conf.GoAppEnvironment == configuration.Production,
		}),
		middleware.ProvideInteraction(),
		middleware.ProvideLocalizer(app, defaultLocale(conf.DefaultLanguage)),
	)

	app.RegisterMiddleware(middlewares...)

	return server.NewHTTPServer(app, http.HandlerFunc(notFound), http.HandlerFunc(methodNotAllowed)), nil
}

func defaultLocale(code string) language.Tag {
	tag, err := language.Parse(code)
	if err != nil {
		return language.BrazilianPortuguese
	}
	return tag
}

func notFound(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteError(w, r, http.StatusNotFound, httpapi.ErrCodeNotFound, "route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteError(w, r, http.StatusMethodNotAllowed, httpapi.ErrCodeBadRequest, "method not allowed")
}

func loggerOptions(conf *configuration.Configuration) middleware.LoggerOptions {
	opts := middleware.DefaultLoggerOptions()
	opts.RequestIDHeader = conf.RequestIDHeader
	opts.RealIPHeader = conf.RealIPHeader
	return opts
}
