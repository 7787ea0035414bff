package instrument

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	changetoken "github.com/commonsensesoftware/go-changetoken"
)

// MetricsConfig configures the Prometheus token wrapper.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "changetoken").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for notify pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus token wrapper.
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

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "changetoken",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// MetricsToken wraps a token and records Prometheus metrics for it.
type MetricsToken struct {
	next               changetoken.Token
	registrationsTotal prometheus.Counter
	notificationsTotal prometheus.Counter
	notifyDuration     prometheus.Histogram
}

var _ changetoken.Token = (*MetricsToken)(nil)
var _ changetoken.Notifier = (*MetricsToken)(nil)

// Metrics wraps next with Prometheus instrumentation.
//
// Metrics collected:
//   - changetoken_registrations_total: Counter of callback registrations
//   - changetoken_notifications_total: Counter of notify passes
//   - changetoken_notify_duration_seconds: Histogram of notify pass duration
func Metrics(next changetoken.Token, opts ...MetricsOption) *MetricsToken {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &MetricsToken{
		next: next,

		registrationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "registrations_total",
			Help:        "Total number of callback registrations",
			ConstLabels: config.ConstLabels,
		}),

		notificationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of notify passes",
			ConstLabels: config.ConstLabels,
		}),

		notifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_duration_seconds",
			Help:        "Notify pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Changed reports whether the wrapped token has changed.
func (t *MetricsToken) Changed() bool {
	return t.next.Changed()
}

// MustPoll reports whether the wrapped token requires polling.
func (t *MetricsToken) MustPoll() bool {
	return t.next.MustPoll()
}

// Register counts the registration and forwards it to the wrapped token.
func (t *MetricsToken) Register(cb changetoken.Callback, state any) *changetoken.Registration {
	t.registrationsTotal.Inc()
	return t.next.Register(cb, state)
}

// Notify times the notify pass on the wrapped token. Tokens without a
// producer side make this a counted no-op.
func (t *MetricsToken) Notify() {
	start := time.Now()
	t.notificationsTotal.Inc()

	if n, ok := t.next.(changetoken.Notifier); ok {
		n.Notify()
	}

	t.notifyDuration.Observe(time.Since(start).Seconds())
}
