package bootstrap

import (
	"io"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/wirekit/di"
	"github.com/kbukum/wirekit/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	catalog         di.Catalog
	containerOpts   []di.Option
	tracerProvider  trace.TracerProvider
	meterProvider   metric.MeterProvider
	summaryOut      io.Writer
	gracefulTimeout *time.Duration
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithCatalog sets the catalog the scan strategy discovers classes from.
func WithCatalog(c di.Catalog) Option {
	return func(o *appOptions) {
		o.catalog = c
	}
}

// WithContainerOptions passes extra options to di.New.
func WithContainerOptions(opts ...di.Option) Option {
	return func(o *appOptions) {
		o.containerOpts = append(o.containerOpts, opts...)
	}
}

// WithTelemetryProviders uses the given providers instead of building OTLP
// exporters from the telemetry config.
func WithTelemetryProviders(tp trace.TracerProvider, mp metric.MeterProvider) Option {
	return func(o *appOptions) {
		o.tracerProvider = tp
		o.meterProvider = mp
	}
}

// WithSummaryOutput sets where the startup summary is printed. Pass
// io.Discard to silence it.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}
