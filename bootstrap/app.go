package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/wirekit/di"
	"github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/inspect"
	"github.com/kbukum/wirekit/logger"
	"github.com/kbukum/wirekit/observability"
)

// App represents a wirekit application with uniform lifecycle management.
// The type parameter C is the config type; any struct embedding
// bootstrap.Config satisfies AppConfig.
//
// Example:
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithCatalog(catalog))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    a.Container.Register("clock", realClock{})
//	    return nil
//	})
//	app.RunTask(ctx, func(ctx context.Context) error { ... })
type App[C AppConfig] struct {
	Name        string
	Version     string
	Cfg         C
	Container   *di.Container
	Logger      *logger.Logger
	Summary     *Summary
	Instruments *observability.Instruments
	// Result is the outcome of the scan run at startup; nil for eager apps.
	Result *di.ScanResult
	// Inspector serves the container over HTTP when inspect.enabled is set.
	Inspector *inspect.Server

	strategy        di.Strategy
	namespaces      []string
	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error
	telemetryStop   []func(context.Context) error
	opts            *appOptions

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates an application from a typed config. It applies defaults,
// validates the config, initializes the logger and telemetry, and creates the
// container locked to the configured strategy.
func NewApp[C AppConfig](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	bc := cfg.GetBootstrapConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		strategy:        di.ParseStrategy(bc.Container.Strategy),
		namespaces:      bc.Container.Namespaces,
		gracefulTimeout: 15 * time.Second,
		opts:            o,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	instruments, err := app.initTelemetry(context.Background(), bc)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	app.Instruments = instruments

	// The container picks up its logger from the "di" registry entry.
	logger.Register("di", app.Logger.WithComponent("di"))
	containerOpts := []di.Option{
		di.WithStrategy(app.strategy),
		di.WithInstruments(instruments),
	}
	if o.catalog != nil {
		containerOpts = append(containerOpts, di.WithCatalog(o.catalog))
	}
	if bc.Container.Diagnostics {
		containerOpts = append(containerOpts, di.WithSink(diagnosticsSink(app.Logger)))
	}
	app.Container = di.New(append(containerOpts, o.containerOpts...)...)

	app.Summary = NewSummary(base.Name, base.Version, app.strategy.String())
	return app, nil
}

// initTelemetry returns instruments on the providers passed as options, on
// OTLP exporters when telemetry is enabled, or on the global providers.
func (a *App[C]) initTelemetry(ctx context.Context, bc *Config) (*observability.Instruments, error) {
	if a.opts.tracerProvider != nil && a.opts.meterProvider != nil {
		return observability.NewInstruments(a.opts.tracerProvider, a.opts.meterProvider)
	}
	if !bc.Telemetry.Enabled {
		return observability.DefaultInstruments(), nil
	}

	exp := observability.ExporterConfig{
		ServiceName:    bc.Name,
		ServiceVersion: bc.Version,
		Environment:    bc.Environment,
		Endpoint:       bc.Telemetry.Endpoint,
		Insecure:       bc.Telemetry.Insecure,
	}
	tp, err := observability.InitTracer(ctx, observability.TracerConfig{ExporterConfig: exp, SampleRate: bc.Telemetry.SampleRate})
	if err != nil {
		return nil, err
	}
	a.telemetryStop = append(a.telemetryStop, tp.Shutdown)

	mp, err := observability.InitMeter(ctx, observability.MeterConfig{ExporterConfig: exp, Interval: bc.Telemetry.MetricInterval})
	if err != nil {
		return nil, err
	}
	a.telemetryStop = append(a.telemetryStop, mp.Shutdown)

	return observability.NewInstruments(tp, mp)
}

// OnConfigure registers a callback that runs before wiring. Scan apps use it
// to register prebuilt instances; eager apps construct their classes here.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck reports an error unless the container is healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	h := a.Container.CheckHealth(ctx)
	if h.Status == observability.HealthStatusUp {
		return nil
	}
	return fmt.Errorf("container %s: %s (failures=%s, unresolved=%s)",
		h.Status, h.Message, h.Details["failures"], h.Details["unresolved"])
}

// Run wires the application and blocks until a shutdown signal or context
// cancellation, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask wires the application, runs task, and shuts down when the task
// returns or the context is canceled (e.g., via SIGINT/SIGTERM).
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// Wire runs the startup sequence without blocking or shutting down:
// OnStart hooks, configure callbacks, the scan (scan strategy only), the
// ready check and OnReady hooks. Use Shutdown when done.
func (a *App[C]) Wire(ctx context.Context) error {
	return a.startup(ctx)
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		logger.FieldStrategy, a.strategy.String(),
		logger.FieldContainerID, a.Container.ID(),
	))

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := a.wire(ctx); err != nil {
		return fmt.Errorf("wiring failed: %w", err)
	}

	if err := a.startInspector(ctx); err != nil {
		return fmt.Errorf("inspect server failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.ErrorFields("ready_check", err))
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.Collect(a.Container, a.Result)
	a.DisplaySummary(ctx)
	return nil
}

// configure runs registered configuration callbacks.
func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Debug("Running configuration callbacks", logger.Fields("count", len(a.onConfigure)))
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// wire scans the configured namespaces. Eager apps are already wired by the
// time their configure callbacks return. Per-class failures are logged; only
// fatal configuration errors abort startup.
func (a *App[C]) wire(ctx context.Context) error {
	if a.strategy != di.StrategyScan {
		return nil
	}

	result, err := a.Container.Scan(ctx, a.namespaces...)
	if err != nil {
		return err
	}
	a.Result = result

	for _, f := range result.Failures {
		a.Logger.Error("Wiring failure", logger.Fields(
			logger.FieldPhase, f.Phase.String(),
			logger.FieldClass, f.Class,
			logger.FieldError, f.Err.Error(),
		))
	}
	return nil
}

func (a *App[C]) startInspector(ctx context.Context) error {
	cfg := a.Cfg.GetBootstrapConfig().Inspect
	if !cfg.Enabled {
		return nil
	}

	a.Inspector = inspect.New(cfg, a.Logger)
	a.Inspector.RegisterEndpoints(a.Name, a.Container)
	return a.Inspector.Start(ctx)
}

// DisplaySummary prints the startup summary with the container's live health.
func (a *App[C]) DisplaySummary(ctx context.Context) {
	out := a.opts.summaryOut
	if out == nil {
		out = os.Stdout
	}
	a.Summary.Display(out, a.Container.CheckHealth(ctx))
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs OnStop hooks, flushes telemetry and clears the container.
// Use it after Wire when managing your own lifecycle.
func (a *App[C]) Shutdown(_ context.Context) error {
	return a.stop()
}

func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("shutdown", err))
		errs = append(errs, err)
	}

	if a.Inspector != nil {
		if err := a.Inspector.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	for _, shutdown := range a.telemetryStop {
		if err := shutdown(ctx); err != nil {
			a.Logger.Error("Telemetry shutdown error", logger.ErrorFields("shutdown", err))
			errs = append(errs, errors.Internal(err))
		}
	}

	a.Container.Clear()
	if di.Current() == a.Container {
		di.ClearCurrent()
	}

	a.Logger.Info("Application shutdown complete")
	return stderrors.Join(errs...)
}

// diagnosticsSink logs every diagnostic at info level.
func diagnosticsSink(log *logger.Logger) di.Sink {
	return di.SinkFunc(func(d di.Diagnostic) {
		log.Info(d.Message, logger.Fields(
			"diagnostic", string(d.Kind),
			logger.FieldKey, d.Key,
			logger.FieldTarget, d.Target,
			logger.FieldMember, d.Member,
		))
	})
}
