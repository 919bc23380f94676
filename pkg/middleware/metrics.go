// Package middleware provides observability wrappers for live table event
// dispatch: Prometheus metrics and OpenTelemetry tracing.
package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tablekit-dev/tablekit/pkg/live"
	"github.com/tablekit-dev/tablekit/pkg/protocol"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "tablekit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "tablekit",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors.
type metrics struct {
	eventsTotal   *prometheus.CounterVec
	eventDuration *prometheus.HistogramVec
	eventErrors   *prometheus.CounterVec
}

// globalMetrics is created on the first Prometheus() call; later calls
// reuse it so the middleware can wrap several servers without duplicate
// registration.
var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

func newMetrics(c MetricsConfig) *metrics {
	factory := promauto.With(c.Registry)
	return &metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "events_total",
			Help:        "Table events received, by event type.",
			ConstLabels: c.ConstLabels,
		}, []string{"type"}),
		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Table event handling duration.",
			ConstLabels: c.ConstLabels,
			Buckets:     c.Buckets,
		}, []string{"type"}),
		eventErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   c.Namespace,
			Subsystem:   c.Subsystem,
			Name:        "event_errors_total",
			Help:        "Table events rejected with an error, by event type.",
			ConstLabels: c.ConstLabels,
		}, []string{"type"}),
	}
}

// Prometheus returns an event middleware recording per-event counters and
// latency histograms.
func Prometheus(opts ...MetricsOption) live.EventMiddleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsOnce.Do(func() {
		globalMetrics = newMetrics(config)
	})
	m := globalMetrics

	return func(next live.EventHandler) live.EventHandler {
		return func(s *live.Session, ev protocol.Event) error {
			label := string(ev.Type)
			m.eventsTotal.WithLabelValues(label).Inc()

			start := time.Now()
			err := next(s, ev)
			m.eventDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

			if err != nil {
				m.eventErrors.WithLabelValues(label).Inc()
			}
			return err
		}
	}
}

// RegisterSessionGauges exposes session-registry counters as gauges on
// reg (nil means the default registerer).
func RegisterSessionGauges(manager *live.Manager, reg prometheus.Registerer, namespace string) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "tablekit"
	}

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Currently connected live table sessions.",
	}, func() float64 {
		return float64(manager.Stats().Active)
	}))

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "peak_sessions",
		Help:      "Highest concurrent session count since start.",
	}, func() float64 {
		return float64(manager.Stats().Peak)
	}))
}
