package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/tienda-core/internal/application/ports"
)

var _ ports.Metrics = (*Metrics)(nil)

// Metrics colectores Prometheus de las operaciones del núcleo (ventas, devoluciones, inventario).
type Metrics struct {
	gatherer   prometheus.Gatherer
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New registra los colectores en un registro propio; con registry nil crea uno nuevo.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tienda_operations_total",
		Help: "Operaciones del núcleo por nombre y resultado.",
	}, []string{"operation", "outcome"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tienda_operation_failures_total",
		Help: "Operaciones abortadas por nombre.",
	}, []string{"operation"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tienda_operation_duration_seconds",
		Help:    "Duración de las operaciones del núcleo incluida la transacción.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	registry.MustRegister(operations, failures, duration)
	return &Metrics{gatherer: registry, operations: operations, failures: failures, duration: duration}
}

// ObserveOperation implementa ports.Metrics.
func (m *Metrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	if outcome != "ok" {
		m.failures.WithLabelValues(operation).Inc()
	}
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
