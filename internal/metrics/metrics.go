package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clinic"

// Booking outcomes.
const (
	OutcomeBooked       = "booked"
	OutcomeOverlap      = "overlap"
	OutcomeOutsideHours = "outside_working_hours"
	OutcomeRejected     = "rejected"
	OutcomeError        = "error"
)

// Collector holds the scheduler's metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	bookingsTotal     *prometheus.CounterVec
	slotLookupsTotal  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	auditDropped prometheus.Counter
	cacheResults *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome.",
		}, []string{"outcome"}),
		slotLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "slot_lookups_total",
			Help:      "First-available and free-window lookups by kind and result.",
		}, []string{"kind", "result"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "operation_duration_seconds",
			Help:      "Latency of scheduling operations.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		auditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "dropped_total",
			Help:      "Audit events dropped because the queue was full.",
		}),
		cacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "working_hours_total",
			Help:      "Working hours cache lookups by result.",
		}, []string{"result"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		c.bookingsTotal,
		c.slotLookupsTotal,
		c.operationDuration,
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.auditDropped,
		c.cacheResults,
	)
	return c
}

func (c *Collector) ObserveBooking(outcome string) {
	if c == nil {
		return
	}
	c.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveSlotLookup(kind, result string) {
	if c == nil {
		return
	}
	c.slotLookupsTotal.WithLabelValues(kind, result).Inc()
}

func (c *Collector) ObserveOperation(operation string, started time.Time) {
	if c == nil {
		return
	}
	c.operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (c *Collector) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) AuditDropped() {
	if c == nil {
		return
	}
	c.auditDropped.Inc()
}

func (c *Collector) ObserveCache(result string) {
	if c == nil {
		return
	}
	c.cacheResults.WithLabelValues(result).Inc()
}

// Handler serves the metrics gathered by g, or the default registry when g is nil.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
