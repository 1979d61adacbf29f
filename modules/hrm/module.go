package hrm

import (
	"embed"

	"github.com/sirupsen/logrus"

	"github.com/cams7/cadferias/modules/hrm/handlers"
	"github.com/cams7/cadferias/modules/hrm/infrastructure/api"
	"github.com/cams7/cadferias/modules/hrm/presentation/controllers"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/notify"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

type ModuleOptions struct {
	Client   *api.Client
	Settings controllers.Settings
	Logger   *logrus.Logger
}

func NewModule(opts ModuleOptions) *Module {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Module{opts: opts}
}

type Module struct {
	opts ModuleOptions
	// unsubscribe detaches the audit handlers; set once Register ran.
	unsubscribe func()
}

func (m *Module) Register(app application.Application) error {
	app.RegisterLocaleFiles(&LocaleFiles)

	employeeRepo := api.NewEmployeeRepository(m.opts.Client)
	employeeService := services.NewEmployeeService(employeeRepo, app.EventPublisher())
	app.RegisterServices(
		employeeService,
		services.NewAddressService(employeeRepo),
		services.NewStaffService(api.NewStaffRepository(m.opts.Client)),
		services.NewVacationService(api.NewVacationRepository(m.opts.Client)),
		services.NewAuthService(api.NewAuthRepository(m.opts.Client)),
		services.NewExportService(employeeService),
		notify.NewNotifier(app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewLoginController(app),
		controllers.NewAlertsController(app),
		controllers.NewNavigationController(app, NavItems),
		controllers.NewEmployeeController(app, m.opts.Settings),
		controllers.NewEmployeeFormController(app, m.opts.Settings),
		controllers.NewVacationController(app, m.opts.Settings),
	)
	m.unsubscribe = handlers.RegisterEmployeeEventHandlers(app, m.opts.Logger)
	return nil
}

// Close detaches the event handlers registered by Register.
func (m *Module) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Module) Name() string {
	return "hrm"
}
