// Package observability provides OpenTelemetry integration and audit
// logging for launch descriptors.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry provides observability features.
type Telemetry interface {
	// StartSpan starts a new trace span.
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, func())

	// RecordLaunch increments the launch counter.
	RecordLaunch(labels map[string]string)

	// RecordDenied increments the denial counter.
	RecordDenied(labels map[string]string)

	// RecordExitDuration records the run duration of a reported exit.
	RecordExitDuration(seconds float64, labels map[string]string)
}

// SpanOption configures span creation.
type SpanOption func(*spanConfig)

type spanConfig struct {
	attributes []attribute.KeyValue
	kind       trace.SpanKind
}

// WithAttribute adds an attribute to the span.
func WithAttribute(key string, value interface{}) SpanOption {
	return func(c *spanConfig) {
		switch v := value.(type) {
		case string:
			c.attributes = append(c.attributes, attribute.String(key, v))
		case int:
			c.attributes = append(c.attributes, attribute.Int(key, v))
		case int64:
			c.attributes = append(c.attributes, attribute.Int64(key, v))
		case float64:
			c.attributes = append(c.attributes, attribute.Float64(key, v))
		case bool:
			c.attributes = append(c.attributes, attribute.Bool(key, v))
		}
	}
}

// WithSpanKind sets the span kind.
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(c *spanConfig) {
		c.kind = kind
	}
}

// TelemetryConfig configures telemetry.
type TelemetryConfig struct {
	// ServiceName is the service name for tracing.
	ServiceName string

	// ServiceVersion is the service version.
	ServiceVersion string

	// Environment is the deployment environment.
	Environment string

	// EnableTracing enables distributed tracing.
	EnableTracing bool

	// EnableMetrics enables metrics collection.
	EnableMetrics bool

	// MetricsPrefix is the prefix for all metrics.
	MetricsPrefix string
}

// DefaultTelemetryConfig returns default configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		ServiceName:    "golaunch",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
		MetricsPrefix:  "golaunch_",
	}
}

// telemetry implements Telemetry.
type telemetry struct {
	config TelemetryConfig
	tracer trace.Tracer
	meter  metric.Meter

	launchCounter  metric.Int64Counter
	deniedCounter  metric.Int64Counter
	exitDuration   metric.Float64Histogram
	activeLaunches metric.Int64UpDownCounter
}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry(config TelemetryConfig) (Telemetry, error) {
	t := &telemetry{
		config: config,
		tracer: otel.Tracer(config.ServiceName),
		meter:  otel.Meter(config.ServiceName),
	}

	var err error

	t.launchCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"launches_total",
		metric.WithDescription("Total number of materialized launches"),
	)
	if err != nil {
		return nil, err
	}

	t.deniedCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"launch_denied_total",
		metric.WithDescription("Total number of denied launches"),
	)
	if err != nil {
		return nil, err
	}

	t.exitDuration, err = t.meter.Float64Histogram(
		config.MetricsPrefix+"launch_duration_seconds",
		metric.WithDescription("Duration of reported process runs"),
	)
	if err != nil {
		return nil, err
	}

	t.activeLaunches, err = t.meter.Int64UpDownCounter(
		config.MetricsPrefix+"active_launches",
		metric.WithDescription("Number of launches awaiting an exit report"),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// StartSpan implements Telemetry.StartSpan.
func (t *telemetry) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, func()) {
	if !t.config.EnableTracing {
		return ctx, func() {}
	}

	cfg := &spanConfig{
		kind: trace.SpanKindInternal,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name,
		trace.WithAttributes(cfg.attributes...),
		trace.WithSpanKind(cfg.kind),
	)

	return ctx, func() {
		span.End()
	}
}

// RecordLaunch implements Telemetry.RecordLaunch.
func (t *telemetry) RecordLaunch(labels map[string]string) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := labelsToAttributes(labels)
	t.launchCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	t.activeLaunches.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordDenied implements Telemetry.RecordDenied.
func (t *telemetry) RecordDenied(labels map[string]string) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := labelsToAttributes(labels)
	t.deniedCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordExitDuration implements Telemetry.RecordExitDuration.
func (t *telemetry) RecordExitDuration(seconds float64, labels map[string]string) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := labelsToAttributes(labels)
	t.exitDuration.Record(context.Background(), seconds, metric.WithAttributes(attrs...))
	t.activeLaunches.Add(context.Background(), -1, metric.WithAttributes(attrs...))
}

// labelsToAttributes converts labels to OTEL attributes.
func labelsToAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}

// NoopTelemetry returns a no-op telemetry implementation.
func NoopTelemetry() Telemetry {
	return &noopTelemetry{}
}

type noopTelemetry struct{}

func (t *noopTelemetry) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, func()) {
	return ctx, func() {}
}

func (t *noopTelemetry) RecordLaunch(labels map[string]string)                      {}
func (t *noopTelemetry) RecordDenied(labels map[string]string)                      {}
func (t *noopTelemetry) RecordExitDuration(seconds float64, labels map[string]string) {}
