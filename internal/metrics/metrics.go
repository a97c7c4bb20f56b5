package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booking"

// Collector agrupa as métricas do serviço. Um *Collector nil é válido e não
// registra nada, o que simplifica testes.
type Collector struct {
	registry prometheus.Gatherer

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	ReservationsTotal *prometheus.CounterVec
	TransitionsTotal  *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec

	AuditDropped prometheus.Counter
}

// NewCollector registra as métricas em reg (use prometheus.NewRegistry() em testes).
func NewCollector(reg *prometheus.Registry) *Collector {
	f := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"method", "path"}),

		ReservationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "core",
			Name:      "reservations_total",
			Help:      "Reservation attempts by outcome.",
		}, []string{"outcome"}),

		TransitionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "core",
			Name:      "transitions_total",
			Help:      "Status transition attempts by target status and outcome.",
		}, []string{"target", "outcome"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "occupancy_lookups_total",
			Help:      "Occupancy cache lookups by result.",
		}, []string{"result"}),

		AuditDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "dropped_total",
			Help:      "Audit events dropped because the queue was full.",
		}),
	}
}

func (c *Collector) ObserveRequest(method, path string, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(method, path, status).Inc()
	c.RequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (c *Collector) Reservation(outcome string) {
	if c == nil {
		return
	}
	c.ReservationsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) Transition(target, outcome string) {
	if c == nil {
		return
	}
	c.TransitionsTotal.WithLabelValues(target, outcome).Inc()
}

func (c *Collector) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) AuditDrop() {
	if c == nil {
		return
	}
	c.AuditDropped.Inc()
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
