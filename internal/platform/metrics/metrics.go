package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"statusline/pkg/platform/validation"
)

// Metrics holds the Prometheus collectors shared by the project, risk and
// decision modules. Every series carries an entity label.
type Metrics struct {
	RecordsCreated     *prometheus.CounterVec
	RecordsDeleted     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	StatusTransitions  *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statusline_records_created_total",
			Help: "Total number of records created",
		}, []string{"entity"}),
		RecordsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statusline_records_deleted_total",
			Help: "Total number of records deleted",
		}, []string{"entity"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statusline_validation_failures_total",
			Help: "Payloads rejected before persistence, by violation kind",
		}, []string{"entity", "operation", "kind"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statusline_status_transitions_total",
			Help: "Lifecycle status changes applied",
		}, []string{"entity", "from", "to"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "statusline_operation_duration_seconds",
			Help:    "Duration of service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"entity", "operation"}),
	}
}

func (m *Metrics) IncrementCreated(entity string) {
	m.RecordsCreated.WithLabelValues(entity).Inc()
}

func (m *Metrics) IncrementDeleted(entity string) {
	m.RecordsDeleted.WithLabelValues(entity).Inc()
}

// ObserveViolations counts one failure per distinct violation kind in vs.
func (m *Metrics) ObserveViolations(entity, operation string, vs validation.Violations) {
	seen := map[validation.Kind]bool{}
	for _, v := range vs {
		if seen[v.Kind] {
			continue
		}
		seen[v.Kind] = true
		m.ValidationFailures.WithLabelValues(entity, operation, string(v.Kind)).Inc()
	}
}

func (m *Metrics) IncrementTransition(entity, from, to string) {
	m.StatusTransitions.WithLabelValues(entity, from, to).Inc()
}

// ObserveDuration records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveDuration(entity, operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
}
