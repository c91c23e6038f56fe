// Package metric defines the prometheus instrumentation for a normalization
// run: records processed, anomalies by kind and field, and escalation calls
// by field and outcome.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline-level collectors.
type Metrics struct {
	RecordsProcessed prometheus.Counter
	AnomaliesTotal   *prometheus.CounterVec
	EscalationsTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors. Call Register to attach them to a
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "invnorm",
				Subsystem: "pipeline",
				Name:      "records_processed_total",
				Help:      "Total number of inventory records normalized",
			},
		),
		AnomaliesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "invnorm",
				Subsystem: "pipeline",
				Name:      "anomalies_total",
				Help:      "Total number of anomalies detected",
			},
			[]string{"kind", "field"},
		),
		EscalationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "invnorm",
				Subsystem: "escalation",
				Name:      "calls_total",
				Help:      "Total number of collaborator escalation attempts",
			},
			[]string{"field", "outcome"},
		),
	}
}

// Register attaches all collectors to the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.RecordsProcessed,
		m.AnomaliesTotal,
		m.EscalationsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveEscalation records one escalation attempt.
func (m *Metrics) ObserveEscalation(field string, resolved bool) {
	outcome := "resolved"
	if !resolved {
		outcome = "unresolved"
	}
	m.EscalationsTotal.WithLabelValues(field, outcome).Inc()
}
