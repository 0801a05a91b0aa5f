package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus metrics of the service.
// Each collector owns its registry so tests can create as many as they need.
type Collector struct {
	registry *prometheus.Registry

	// Table metrics
	DBOperations *prometheus.CounterVec
	DBDuration   *prometheus.HistogramVec

	// Business metrics
	StatusUpdates  *prometheus.CounterVec
	DevicesMissing prometheus.Counter

	// Circuit breaker
	BreakerState *prometheus.GaugeVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		DBOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_operations_total",
				Help:      "Total number of table operations",
			},
			[]string{"operation", "table", "status"},
		),
		DBDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_operation_duration_seconds",
				Help:      "Table operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		StatusUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "device_status_updates_total",
				Help:      "Device status writes by resulting status",
			},
			[]string{"status"},
		),
		DevicesMissing: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "device_lookups_missing_total",
				Help:      "Lookups that found no device row",
			},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}

	registry.MustRegister(
		c.DBOperations,
		c.DBDuration,
		c.StatusUpdates,
		c.DevicesMissing,
		c.BreakerState,
	)

	return c
}

// Registry returns the registry backing this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordDBOperation records the outcome and latency of one table call
func (c *Collector) RecordDBOperation(operation, table string, duration time.Duration, err error) {
	if c == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}

	c.DBOperations.WithLabelValues(operation, table, status).Inc()
	c.DBDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordStatusUpdate counts a status write
func (c *Collector) RecordStatusUpdate(status string) {
	if c == nil {
		return
	}
	c.StatusUpdates.WithLabelValues(status).Inc()
}

// RecordMissingDevice counts a lookup that found nothing
func (c *Collector) RecordMissingDevice() {
	if c == nil {
		return
	}
	c.DevicesMissing.Inc()
}

// SetBreakerState publishes the numeric state of a circuit breaker
func (c *Collector) SetBreakerState(name string, state float64) {
	if c == nil {
		return
	}
	c.BreakerState.WithLabelValues(name).Set(state)
}
