package lookup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeIssued     = "issued"
	outcomeDuplicate  = "duplicate"
	outcomeSuperseded = "superseded"
	outcomeDelivered  = "delivered"
	outcomeFailed     = "failed"
)

var queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cadferias",
	Subsystem: "lookup",
	Name:      "queries_total",
	Help:      "Lookup queries by field and outcome.",
}, []string{"field", "outcome"})

func observe(field, outcome string) {
	queriesTotal.WithLabelValues(field, outcome).Inc()
}
