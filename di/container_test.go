package di

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goerrors "github.com/kbukum/wirekit/errors"
	"github.com/kbukum/wirekit/logger"
	"github.com/kbukum/wirekit/observability"
)

func TestNew(t *testing.T) {
	c := newTestContainer(t)
	assert.NotEmpty(t, c.ID())
	assert.NotEqual(t, c.ID(), newTestContainer(t).ID())
	assert.Equal(t, StrategyUnset, c.Strategy())
}

func TestTargetName(t *testing.T) {
	assert.Equal(t, "OrderService", TargetName(&OrderService{}))
	assert.Equal(t, "PaymentGateway", TargetName(PaymentGateway{}))
	assert.Equal(t, "<nil>", TargetName(nil))
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategyScan, ParseStrategy("scan"))
	assert.Equal(t, StrategyEager, ParseStrategy("eager"))
	assert.Equal(t, StrategyUnset, ParseStrategy("lazy"))
	assert.Equal(t, "eager", StrategyEager.String())
}

func TestRegister_ReplacementIsObservable(t *testing.T) {
	var seen []Diagnostic
	c := newTestContainer(t, WithSink(SinkFunc(func(d Diagnostic) { seen = append(seen, d) })))

	c.Register("orderService", &OrderService{})
	second := &OrderService{}
	c.Register("orderService", second)

	got, ok := c.Get("orderService")
	require.True(t, ok)
	assert.Same(t, second, got)

	replaced := c.DiagnosticsOf(DiagReplaced)
	require.Len(t, replaced, 1)
	assert.Equal(t, "orderService", replaced[0].Key)
	assert.Equal(t, c.Diagnostics(), seen)
}

func TestGet_Absent(t *testing.T) {
	c := newTestContainer(t)
	instance, ok := c.Get("missingService")
	assert.False(t, ok)
	assert.Nil(t, instance)
}

func TestLookup(t *testing.T) {
	c := newTestContainer(t)
	orders := &OrderService{}
	c.Register("orderService", orders)

	got, ok := c.Lookup("OrderService")
	require.True(t, ok)
	assert.Same(t, orders, got)

	got, ok = c.Lookup("orderService")
	require.True(t, ok)
	assert.Same(t, orders, got)

	_, ok = c.Lookup("BillingService")
	assert.False(t, ok)
}

func TestClear_KeepsStrategy(t *testing.T) {
	c := newTestContainer(t, WithCatalog(shopCatalog()))
	_, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)

	c.Clear()
	c.Clear()
	assert.Empty(t, c.All())
	assert.Empty(t, c.Controllers())
	assert.Empty(t, c.Diagnostics())
	assert.Equal(t, StrategyScan, c.Strategy())

	result, err := c.Scan(context.Background(), "shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"shop"}, result.Namespaces, "Clear forgets discovered namespaces")
	assert.Len(t, c.All(), 2)
}

func TestDiagnostics_ForwardedToLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, &buf, "test")
	c := New(WithLogger(log))

	c.Inject(&BillingService{})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "orderService", entry[logger.FieldKey])
	assert.Equal(t, "OrderService", entry[logger.FieldMember])
	assert.Equal(t, c.ID(), entry[logger.FieldContainerID])
}

func TestResolve(t *testing.T) {
	c := newTestContainer(t)
	orders := &OrderService{}
	c.Register("orderService", orders)

	got, err := Resolve[*OrderService](c, "orderService")
	require.NoError(t, err)
	assert.Same(t, orders, got)

	_, err = Resolve[*OrderService](c, "missingService")
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeNotFound))

	_, err = Resolve[*BillingService](c, "orderService")
	assert.True(t, goerrors.HasCode(err, goerrors.ErrCodeTypeMismatch))

	_, ok := TryResolve[*BillingService](c, "billingService")
	assert.False(t, ok)

	ref, ok := ResolveRef[*OrderService](c)
	require.True(t, ok)
	assert.Same(t, orders, ref)

	assert.Panics(t, func() { MustResolve[*BillingService](c, "billingService") })
}

func TestCheckHealth(t *testing.T) {
	c := newTestContainer(t)
	assert.Equal(t, observability.HealthStatusUp, c.CheckHealth(context.Background()).Status)

	c.Inject(&BillingService{})
	h := c.CheckHealth(context.Background())
	assert.Equal(t, observability.HealthStatusDegraded, h.Status)
	assert.Equal(t, "1", h.Details["unresolved"])

	_, _ = c.Construct(Service[BrokenService](WithFactory(func() *BrokenService { return nil })))
	h = c.CheckHealth(context.Background())
	assert.Equal(t, observability.HealthStatusDown, h.Status)
	assert.Equal(t, "eager", h.Details["strategy"])
}
