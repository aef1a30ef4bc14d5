package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all dispatch service metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Event metrics
	EventsPublished *prometheus.CounterVec

	// Allocation metrics
	AllocationPasses   *prometheus.CounterVec
	AllocationDuration *prometheus.HistogramVec
	OrdersAllocated    *prometheus.CounterVec
	UnitsDispatched    *prometheus.CounterVec
	VehiclesDispatched *prometheus.CounterVec

	// Scorer metrics
	ScoreEvaluations *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "healsync",
	}
}

// New creates a new Metrics instance with its own registry
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	// Register standard Go metrics
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "events_published_total",
			Help:      "Total number of dispatch events published",
		},
		[]string{"service", "event_type", "status"},
	)

	m.AllocationPasses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "allocation_passes_total",
			Help:      "Total number of allocation passes",
		},
		[]string{"service", "source"},
	)

	m.AllocationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "allocation_duration_seconds",
			Help:      "Allocation pass duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"service", "source"},
	)

	m.OrdersAllocated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "orders_allocated_total",
			Help:      "Total number of orders by allocation outcome",
		},
		[]string{"service", "status"},
	)

	m.UnitsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "units_dispatched_total",
			Help:      "Total number of medicine units dispatched",
		},
		[]string{"service", "medicine"},
	)

	m.VehiclesDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "vehicles_dispatched_total",
			Help:      "Total number of delivery vehicles dispatched",
		},
		[]string{"service"},
	)

	m.ScoreEvaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "score_evaluations_total",
			Help:      "Total number of risk score evaluations by resulting level",
		},
		[]string{"service", "scorer", "level"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service", "name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.EventsPublished,
		m.AllocationPasses,
		m.AllocationDuration,
		m.OrdersAllocated,
		m.UnitsDispatched,
		m.VehiclesDispatched,
		m.ScoreEvaluations,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// InFlight adjusts the in-flight request gauge by delta
func (m *Metrics) InFlight(delta float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Add(delta)
}

// RecordEventPublished records one event publication attempt
func (m *Metrics) RecordEventPublished(eventType string, success bool) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(m.serviceName, eventType, status(success)).Inc()
}

// RecordAllocation records one allocation pass and its outcomes
func (m *Metrics) RecordAllocation(source string, fulfilled, partial, pending, vehicles int, duration time.Duration) {
	if m == nil {
		return
	}
	m.AllocationPasses.WithLabelValues(m.serviceName, source).Inc()
	m.AllocationDuration.WithLabelValues(m.serviceName, source).Observe(duration.Seconds())
	m.OrdersAllocated.WithLabelValues(m.serviceName, "FULFILLED").Add(float64(fulfilled))
	m.OrdersAllocated.WithLabelValues(m.serviceName, "PARTIAL").Add(float64(partial))
	m.OrdersAllocated.WithLabelValues(m.serviceName, "PENDING").Add(float64(pending))
	m.VehiclesDispatched.WithLabelValues(m.serviceName).Add(float64(vehicles))
}

// RecordUnitsDispatched adds dispatched units for a medicine
func (m *Metrics) RecordUnitsDispatched(medicine string, units int64) {
	if m == nil || units <= 0 {
		return
	}
	m.UnitsDispatched.WithLabelValues(m.serviceName, medicine).Add(float64(units))
}

// RecordScore records a scorer evaluation
func (m *Metrics) RecordScore(scorer, level string) {
	if m == nil {
		return
	}
	m.ScoreEvaluations.WithLabelValues(m.serviceName, scorer, level).Inc()
}

// SetCircuitBreakerState sets circuit breaker state (0=closed, 1=half-open, 2=open)
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
