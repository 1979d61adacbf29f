package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/cams7/cadferias/internal/server"
	"github.com/cams7/cadferias/modules"
	"github.com/cams7/cadferias/modules/hrm"
	"github.com/cams7/cadferias/modules/hrm/infrastructure/api"
	"github.com/cams7/cadferias/modules/hrm/presentation/controllers"
	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/configuration"
	"github.com/cams7/cadferias/pkg/eventbus"
	"github.com/cams7/cadferias/pkg/logging"
	"github.com/cams7/cadferias/pkg/metrics"
	"github.com/cams7/cadferias/pkg/notify"
	"github.com/cams7/cadferias/pkg/session"
)

// translationModules registers the locale files for the translation checks.
// No backend is contacted.
func translationModules() []application.Module {
	return []application.Module{
		hrm.NewModule(hrm.ModuleOptions{Client: api.NewClient(api.ClientOptions{})}),
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(parent, conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.TempoURL)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(session.StoreOptions{
		IdleTTL: conf.Session.IdleTTL,
		Logger:  logger,
	})
	bus := eventbus.NewEventPublisher(logger)
	bundle := application.LoadBundle(language.BrazilianPortuguese)
	app := application.New(&application.ApplicationOptions{
		EventBus: bus,
		Logger:   logger,
		Bundle:   bundle,
		Sessions: sessions,
		Huber: application.NewHub(&application.HuberOptions{
			Bundle:   bundle,
			Logger:   logger,
			Sessions: sessions,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}),
	})

	client := api.NewClient(api.ClientOptions{
		BaseURL:         conf.Backend.URL,
		Timeout:         conf.Backend.Timeout,
		Logger:          logger,
		RequestIDHeader: conf.RequestIDHeader,
	})
	hrmModule := hrm.NewModule(hrm.ModuleOptions{
		Client: client,
		Settings: controllers.Settings{
			PageSize:      conf.PageSize,
			Debounce:      conf.Lookup.Debounce,
			MaxUploadSize: conf.MaxUploadSize,
		},
		Logger: logger,
	})
	if err := modules.Load(app, hrmModule); err != nil {
		return errors.Wrap(err, "load modules")
	}
	defer hrmModule.Close()
	unsubscribe := notify.NewRouter(sessions, logger).Subscribe(bus)
	defer unsubscribe()

	app.RegisterControllers(metrics.NewHealthController(app, map[string]metrics.Probe{
		"backend": func(r *http.Request) error {
			return client.Ping(r.Context())
		},
	}))
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path, nil))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
	})
	if err != nil {
		return errors.Wrap(err, "create server")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sessions.Run(ctx, conf.Session.SweepInterval)
	})
	g.Go(func() error {
		logger.WithFields(logrus.Fields{
			"origin":  conf.Origin,
			"backend": conf.Backend.URL,
		}).Info("Listening")
		return serverInstance.Run(ctx, conf.SocketAddress)
	})
	return g.Wait()
}
