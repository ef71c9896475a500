package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Metric names recorded by the container.
const (
	MetricRegistrations = "di.registrations"
	MetricInjections    = "di.injections"
	MetricMissing       = "di.missing_dependencies"
	MetricFailures      = "di.failures"
	MetricWireDuration  = "di.wire.duration"
)

// Instruments bundles the tracer and metric instruments a container reports to.
type Instruments struct {
	tracer        trace.Tracer
	registrations metric.Int64Counter
	injections    metric.Int64Counter
	missing       metric.Int64Counter
	failures      metric.Int64Counter
	wireDuration  metric.Float64Histogram
}

// NewInstruments creates instruments on the given providers.
func NewInstruments(tp trace.TracerProvider, mp metric.MeterProvider) (*Instruments, error) {
	meter := mp.Meter(instrumentationName)

	registrations, err := meter.Int64Counter(MetricRegistrations,
		metric.WithDescription("Instances registered into a container"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRegistrations, err)
	}

	injections, err := meter.Int64Counter(MetricInjections,
		metric.WithDescription("Dependencies assigned to members"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricInjections, err)
	}

	missing, err := meter.Int64Counter(MetricMissing,
		metric.WithDescription("Declared dependencies with no registered instance"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricMissing, err)
	}

	failures, err := meter.Int64Counter(MetricFailures,
		metric.WithDescription("Construction and post-init failures by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricFailures, err)
	}

	wireDuration, err := meter.Float64Histogram(MetricWireDuration,
		metric.WithDescription("Duration of a wiring pass in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricWireDuration, err)
	}

	return &Instruments{
		tracer:        tp.Tracer(instrumentationName),
		registrations: registrations,
		injections:    injections,
		missing:       missing,
		failures:      failures,
		wireDuration:  wireDuration,
	}, nil
}

// DefaultInstruments creates instruments on the global otel providers,
// falling back to no-op instruments if creation fails.
func DefaultInstruments() *Instruments {
	in, err := NewInstruments(otel.GetTracerProvider(), otel.GetMeterProvider())
	if err != nil {
		return NopInstruments()
	}
	return in
}

// NopInstruments returns instruments that record nothing.
func NopInstruments() *Instruments {
	in, _ := NewInstruments(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	return in
}

// StartSpan starts a span on the instruments' tracer.
func (i *Instruments) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordRegistration counts a registration; replaced marks an overwrite.
func (i *Instruments) RecordRegistration(ctx context.Context, strategy string, replaced bool) {
	i.registrations.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStrategy, strategy),
		attribute.Bool("replaced", replaced),
	))
}

// RecordInjection counts the members injected into and missing from target.
func (i *Instruments) RecordInjection(ctx context.Context, target string, injected, missing int) {
	attrs := metric.WithAttributes(attribute.String("target", target))
	if injected > 0 {
		i.injections.Add(ctx, int64(injected), attrs)
	}
	if missing > 0 {
		i.missing.Add(ctx, int64(missing), attrs)
	}
}

// RecordFailure counts a construction or post-init failure.
func (i *Instruments) RecordFailure(ctx context.Context, kind string) {
	i.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordWire records the duration of a wiring pass.
func (i *Instruments) RecordWire(ctx context.Context, strategy string, d time.Duration) {
	i.wireDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrStrategy, strategy),
	))
}
