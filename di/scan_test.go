package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	metricnoop "go.opentelemetry.io/otel/metric/noop"

	goerrors "github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/observability"
)

func TestScan_WiresServicesAndControllers(t *testing.T) {
	c := newTestContainer(t, WithCatalog(shopCatalog()))

	result, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)
	require.NoError(t, result.Err())

	orders := MustResolve[*OrderService](c, "orderService")
	billing := MustResolve[*BillingService](c, "billingService")
	assert.Same(t, orders, billing.OrderService)

	ctrls := c.Controllers()
	require.Len(t, ctrls, 1)
	report := ctrls[0].(*ReportController)
	assert.Same(t, billing, report.BillingService)
	assert.Same(t, orders, report.OrderService)
	assert.Equal(t, 1, report.initCalls)
	assert.True(t, report.sawWired)

	_, ok := c.Get("reportController")
	assert.False(t, ok, "controllers are not registry keys")
	_, ok = c.Get("helper")
	assert.False(t, ok, "unmarked classes are ignored")

	assert.Equal(t, []string{"orderService", "billingService"}, result.Services)
	assert.Equal(t, []string{"reportController"}, result.Controllers)
	assert.Equal(t, StrategyScan, c.Strategy())
}

func TestScan_PhaseOrder(t *testing.T) {
	c := newTestContainer(t, WithCatalog(shopCatalog()))

	result, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, []Phase{
		PhaseIdle, PhaseDiscovering, PhaseInstantiating, PhaseInjecting, PhasePostInit, PhaseDone,
	}, result.Phases)
}

func TestScan_ControllerDeclaredBeforeServices(t *testing.T) {
	catalog := NewStaticCatalog().Add("shop",
		Controller[ReportController](),
		Service[BillingService](),
		Service[OrderService](),
	)
	c := newTestContainer(t, WithCatalog(catalog))

	_, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)

	report := c.Controllers()[0].(*ReportController)
	assert.True(t, report.sawWired)

	billing := MustResolve[*BillingService](c, "billingService")
	assert.NotNil(t, billing.OrderService, "service to service wiring does not depend on declaration order")
}

func TestScan_DiamondNamespacesDiscoveredOnce(t *testing.T) {
	catalog := NewStaticCatalog().
		Add("core", Service[OrderService]()).
		Add("billing", Service[BillingService]()).
		Add("reports", Controller[ReportController]()).
		Import("billing", "core").
		Import("reports", "core").
		Import("app", "billing", "reports")
	c := newTestContainer(t, WithCatalog(catalog))

	result, err := c.Scan(context.Background(), "app")
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "billing", "reports", "app"}, result.Namespaces)
	assert.Equal(t, []string{"core"}, result.Skipped)

	orders := MustResolve[*OrderService](c, "orderService")
	before := c.All()

	again, err := c.Scan(context.Background(), "app")
	require.NoError(t, err)
	assert.Empty(t, again.Namespaces)
	assert.Equal(t, []string{"app"}, again.Skipped)
	assert.Equal(t, before, c.All())
	assert.Same(t, orders, MustResolve[*OrderService](c, "orderService"))
	assert.Len(t, c.Controllers(), 1)
}

func TestScan_UnknownNamespace(t *testing.T) {
	c := newTestContainer(t, WithCatalog(shopCatalog()))

	_, err := c.Scan(context.Background(), "shop", "nowhere")
	require.Error(t, err)
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeUnknownNamespace))
	assert.True(t, goerrors.IsFatal(err))
	assert.Equal(t, StrategyUnset, c.Strategy())
	assert.Zero(t, c.Registry().Len())
}

func TestScan_NoCatalog(t *testing.T) {
	c := newTestContainer(t)
	_, err := c.Scan(context.Background(), "shop")
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeUnknownNamespace))
}

func TestScan_UnknownImportIsDiagnostic(t *testing.T) {
	catalog := shopCatalog().Import("shop", "legacy")
	c := newTestContainer(t, WithCatalog(catalog))

	result, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)
	assert.Contains(t, result.Skipped, "legacy")
	assert.True(t, c.Registry().Has("billingService"))
}

func TestScan_FailuresDoNotAbortPass(t *testing.T) {
	broken := Service[BrokenService](WithFactory(func() *BrokenService { panic("boom") }))
	catalog := NewStaticCatalog().Add("shop",
		Service[OrderService](),
		broken,
		Service[BillingService](),
		Controller[FailingController](),
		Controller[ReportController](),
	)
	c := newTestContainer(t, WithCatalog(catalog))

	result, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)
	require.Len(t, result.Failures, 2)

	assert.Equal(t, PhaseInstantiating, result.Failures[0].Phase)
	assert.Equal(t, "BrokenService", result.Failures[0].Class)
	assert.True(t, goerrors.HasCode(result.Failures[0].Err, goerrors.ErrCodeConstructionFailed))

	assert.Equal(t, PhasePostInit, result.Failures[1].Phase)
	assert.True(t, goerrors.HasCode(result.Failures[1].Err, goerrors.ErrCodePostInitFailed))
	assert.True(t, goerrors.HasCode(result.Err(), goerrors.ErrCodeConstructionFailed))

	assert.False(t, c.Registry().Has("brokenService"))
	billing := MustResolve[*BillingService](c, "billingService")
	assert.NotNil(t, billing.OrderService)

	require.Len(t, c.Controllers(), 2)
	failing := c.Controllers()[0].(*FailingController)
	assert.NotNil(t, failing.OrderService, "a failed hook leaves wiring in place")
	assert.True(t, c.Controllers()[1].(*ReportController).sawWired)
	assert.Len(t, c.DiagnosticsOf(DiagFailure), 2)
}

func TestScan_MissingDependencyIsNotFatal(t *testing.T) {
	catalog := NewStaticCatalog().Add("shop", Service[BillingService]())
	c := newTestContainer(t, WithCatalog(catalog))

	result, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)
	assert.NoError(t, result.Err())
	assert.Equal(t, []MissingDependency{{Member: "OrderService", Key: "orderService"}}, result.Missing())

	billing := MustResolve[*BillingService](c, "billingService")
	assert.Nil(t, billing.OrderService)
}

func TestScan_KeepsPreRegisteredInstance(t *testing.T) {
	c := newTestContainer(t, WithCatalog(shopCatalog()))
	orders := &OrderService{orders: []string{"seed"}}
	c.Register("orderService", orders)

	result, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)

	assert.Equal(t, []string{"billingService"}, result.Services)
	assert.Same(t, orders, MustResolve[*BillingService](c, "billingService").OrderService)
	assert.Empty(t, c.DiagnosticsOf(DiagReplaced))
}

func TestScan_NamedServices(t *testing.T) {
	catalog := NewStaticCatalog().Add("shop",
		Service[LedgerService](Named("ledger")),
		Service[CheckoutService](),
	)
	c := newTestContainer(t, WithCatalog(catalog))

	_, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)

	ledger, ok := c.Get("ledger")
	require.True(t, ok)
	_, ok = c.Get("ledgerService")
	assert.False(t, ok)

	checkout := MustResolve[*CheckoutService](c, "checkoutService")
	assert.Same(t, ledger, checkout.Ledger)
}

func TestScan_NamedServiceInjectedByType(t *testing.T) {
	catalog := NewStaticCatalog().Add("till",
		Service[CashierService](),
		Service[LedgerService](Named("ledger")),
	)
	c := newTestContainer(t, WithCatalog(catalog))

	_, err := c.Scan(context.Background(), "till")
	require.NoError(t, err)

	ledger := MustResolve[*LedgerService](c, "ledger")
	cashier := MustResolve[*CashierService](c, "cashierService")
	assert.Same(t, ledger, cashier.Ledger)
	assert.Empty(t, c.DiagnosticsOf(DiagMissing))

	byRef, ok := ResolveRef[*LedgerService](c)
	require.True(t, ok)
	assert.Same(t, ledger, byRef)
}

func TestScan_RejectedAfterEager(t *testing.T) {
	c := newTestContainer(t, WithCatalog(shopCatalog()))
	_, err := c.Construct(Service[OrderService]())
	require.NoError(t, err)

	_, err = c.Scan(context.Background(), "shop")
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeMixedStrategy))
	assert.Equal(t, 1, c.Registry().Len())
}

func TestScan_EmitsPhaseSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	in, err := observability.NewInstruments(tp, metricnoop.NewMeterProvider())
	require.NoError(t, err)

	c := newTestContainer(t, WithCatalog(shopCatalog()), WithInstruments(in))
	_, err = c.Scan(context.Background(), "shop")
	require.NoError(t, err)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		observability.SpanScanDiscover,
		observability.SpanScanInstantiate,
		observability.SpanScanInject,
		observability.SpanScanPostInit,
		observability.SpanScan,
	}, names)
}

func TestAutoWire(t *testing.T) {
	c := newTestContainer(t)
	require.NoError(t, c.RegisterControllerClass(Controller[ReportController]()))
	require.NoError(t, c.RegisterServiceClass(Service[BillingService]()))
	require.NoError(t, c.RegisterServiceClass(Service[OrderService]()))
	assert.Len(t, c.Classes(), 2)
	assert.Len(t, c.ControllerClasses(), 1)

	result, err := c.AutoWireServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"billingService", "orderService"}, result.Services)
	assert.Empty(t, c.Classes())
	assert.Empty(t, c.Controllers())

	result, err = c.AutoWireControllers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"reportController"}, result.Controllers)
	assert.True(t, c.Controllers()[0].(*ReportController).sawWired)
}

func TestRegisterClass_Validation(t *testing.T) {
	c := newTestContainer(t)

	err := c.RegisterServiceClass(Controller[ReportController]())
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeInvalidClass))
	err = c.RegisterControllerClass(Service[OrderService]())
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeInvalidClass))
	err = c.RegisterServiceClass(nil)
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeInvalidClass))
	err = c.RegisterServiceClass(Unmarked[Helper]())
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeInvalidClass))
	assert.Equal(t, StrategyUnset, c.Strategy())
}
