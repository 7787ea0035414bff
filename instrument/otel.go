package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	changetoken "github.com/commonsensesoftware/go-changetoken"
)

// Default tracer name for change-token spans.
const defaultTracerName = "changetoken"

// TraceConfig configures the OpenTelemetry token wrapper.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "changetoken").
	TracerName string

	// TokenName labels the spans so several traced tokens can be told
	// apart (default: "").
	TokenName string

	// Attributes are added to every span.
	Attributes []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TraceOption configures the OpenTelemetry token wrapper.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTokenName labels spans with a token name.
func WithTokenName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TokenName = name
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TraceOption {
	return func(c *TraceConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// TracedToken wraps a token so every notify pass runs inside a span.
type TracedToken struct {
	next   changetoken.Token
	config TraceConfig
}

var _ changetoken.Token = (*TracedToken)(nil)
var _ changetoken.Notifier = (*TracedToken)(nil)

// Traced wraps next with OpenTelemetry tracing. The tracer comes from the
// global tracer provider; configure that in main before notifying.
func Traced(next changetoken.Token, opts ...TraceOption) *TracedToken {
	config := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return &TracedToken{next: next, config: config}
}

// Changed reports whether the wrapped token has changed.
func (t *TracedToken) Changed() bool {
	return t.next.Changed()
}

// MustPoll reports whether the wrapped token requires polling.
func (t *TracedToken) MustPoll() bool {
	return t.next.MustPoll()
}

// Register forwards to the wrapped token.
func (t *TracedToken) Register(cb changetoken.Callback, state any) *changetoken.Registration {
	return t.next.Register(cb, state)
}

// Notify runs the wrapped token's notify pass inside a span.
func (t *TracedToken) Notify() {
	attrs := append([]attribute.KeyValue{
		attribute.String("changetoken.token", t.config.TokenName),
	}, t.config.Attributes...)

	_, span := t.config.tracer.Start(
		context.Background(),
		"changetoken.notify",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
	defer span.End()

	if n, ok := t.next.(changetoken.Notifier); ok {
		n.Notify()
	}
}
