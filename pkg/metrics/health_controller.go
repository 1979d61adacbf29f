package metrics

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/cams7/cadferias/pkg/application"
	"github.com/cams7/cadferias/pkg/httpapi"
)

// Probe reports whether a dependency is reachable.
type Probe func(r *http.Request) error

type HealthController struct {
	app    application.Application
	probes map[string]Probe
	start  time.Time
}

func NewHealthController(app application.Application, probes map[string]Probe) application.Controller {
	return &HealthController{app: app, probes: probes, start: time.Now()}
}

func (c *HealthController) Key() string {
	return "/health"
}

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.Health).Methods(http.MethodGet)
}

type healthResponse struct {
	Status   string            `json:"status"`
	Uptime   string            `json:"uptime"`
	Sessions int               `json:"sessions"`
	Checks   map[string]string `json:"checks,omitempty"`
}

func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(c.start).Truncate(time.Second).String(),
		Checks: map[string]string{},
	}
	if sessions := c.app.Sessions(); sessions != nil {
		resp.Sessions = sessions.Len()
	}
	status := http.StatusOK
	for name, probe := range c.probes {
		if err := probe(r); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	_ = httpapi.WriteJSON(w, status, resp)
}
