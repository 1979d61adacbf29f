package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/pkg/application"
)

var employeeChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cadferias",
	Subsystem: "hrm",
	Name:      "employee_changes_total",
	Help:      "Employees created, updated and removed through the presentation service.",
}, []string{"action"})

// EmployeeEventsHandler writes an audit line for every employee change.
type EmployeeEventsHandler struct {
	logger *logrus.Logger
}

func RegisterEmployeeEventHandlers(app application.Application, logger *logrus.Logger) func() {
	handler := &EmployeeEventsHandler{logger: logger}
	unsubscribers := []func(){
		app.EventPublisher().Subscribe(handler.onCreated),
		app.EventPublisher().Subscribe(handler.onUpdated),
		app.EventPublisher().Subscribe(handler.onDeleted),
	}
	return func() {
		for _, u := range unsubscribers {
			u()
		}
	}
}

func (h *EmployeeEventsHandler) audit(action, sessionID string, id int64, name string) {
	employeeChanges.WithLabelValues(action).Inc()
	h.logger.WithFields(logrus.Fields{
		"session":     sessionID,
		"employee_id": id,
		"name":        name,
	}).Infof("employee %s", action)
}

func (h *EmployeeEventsHandler) onCreated(event *employee.CreatedEvent) {
	h.audit("created", event.SessionID, event.Result.EntityID, event.Result.Name)
}

func (h *EmployeeEventsHandler) onUpdated(event *employee.UpdatedEvent) {
	h.audit("updated", event.SessionID, event.Result.EntityID, event.Result.Name)
}

func (h *EmployeeEventsHandler) onDeleted(event *employee.DeletedEvent) {
	h.audit("deleted", event.SessionID, event.ID, event.Name)
}
