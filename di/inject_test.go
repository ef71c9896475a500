package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInject_AssignsRegisteredDependency(t *testing.T) {
	c := newTestContainer(t)
	orders := &OrderService{}
	c.Register("orderService", orders)

	billing := &BillingService{}
	report := c.Inject(billing)

	assert.Same(t, orders, billing.OrderService)
	assert.Equal(t, []string{"OrderService"}, report.Injected)
	assert.True(t, report.Complete())
	assert.Equal(t, "BillingService", report.Target)
}

func TestInject_MissingLeavesMemberUnset(t *testing.T) {
	c := newTestContainer(t)
	billing := &BillingService{}

	report := c.Inject(billing)

	assert.Nil(t, billing.OrderService)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, MissingDependency{Member: "OrderService", Key: "orderService"}, report.Missing[0])

	missing := c.DiagnosticsOf(DiagMissing)
	require.Len(t, missing, 1)
	assert.Equal(t, "orderService", missing[0].Key)
	assert.Equal(t, "BillingService", missing[0].Target)
}

func TestInject_Idempotent(t *testing.T) {
	c := newTestContainer(t)
	orders := &OrderService{}
	c.Register("orderService", orders)
	keys := c.Keys()

	ctrl := &ReportController{}
	first := c.Inject(ctrl)
	injected := len(c.DiagnosticsOf(DiagInjected))
	second := c.Inject(ctrl)

	assert.Equal(t, first, second)
	assert.Same(t, orders, ctrl.OrderService)
	assert.Equal(t, keys, c.Keys())
	assert.Equal(t, 1, c.Registry().Len())
	assert.Len(t, c.DiagnosticsOf(DiagInjected), 2*injected, "each call reports its own assignments")
}

func TestInject_NoDeclaration(t *testing.T) {
	c := newTestContainer(t)

	report := c.Inject(&OrderService{})
	assert.Empty(t, report.Injected)
	assert.Empty(t, report.Missing)

	report = c.Inject(nil)
	assert.Empty(t, report.Injected)
}

func TestInject_DeclarerAndSetter(t *testing.T) {
	c := newTestContainer(t)
	orders := &OrderService{}
	c.Register("orderService", orders)
	c.Register("cache", "should never be looked up")

	audit := &AuditService{}
	report := c.Inject(audit)

	assert.Same(t, orders, audit.orders)
	assert.Equal(t, []string{"orders"}, report.Injected)
	assert.Empty(t, report.Missing)
}

func TestInject_TagForms(t *testing.T) {
	c := newTestContainer(t)
	gateway := &PaymentGateway{}
	ledger := &LedgerService{}
	c.Register("payments", gateway)
	c.Register("ledger", ledger)
	c.Register("orderService", &OrderService{})

	checkout := &CheckoutService{}
	report := c.Inject(checkout)

	assert.Same(t, gateway, checkout.Payments)
	assert.Same(t, ledger, checkout.Ledger)
	assert.Nil(t, checkout.Skipped)
	assert.Nil(t, checkout.Untagged)
	assert.ElementsMatch(t, []string{"Payments", "Ledger"}, report.Injected)
}

func TestInject_TypeMismatchIsReported(t *testing.T) {
	c := newTestContainer(t)
	c.Register("orderService", "not an order service")

	billing := &BillingService{}
	report := c.Inject(billing)

	assert.Nil(t, billing.OrderService)
	assert.Equal(t, []string{"OrderService"}, report.Mismatched)
	assert.False(t, report.Complete())
	assert.Len(t, c.DiagnosticsOf(DiagMismatch), 1)
}

func TestInject_ClassDependencyTakesPrecedence(t *testing.T) {
	c := newTestContainer(t)
	ledger := &OrderService{}
	c.Register("orderService", &OrderService{})
	c.Register("ledger", ledger)

	class := Service[BillingService](WithDependency("OrderService", KeyRef("ledger")))
	billing := &BillingService{}
	c.inject(context.Background(), class, billing)

	assert.Same(t, ledger, billing.OrderService)
}

func TestDeclarationOf_ReservedPrefixAndOrder(t *testing.T) {
	class := Service[AuditService](WithDependency("_secret", KeyRef("x")), WithDependency("orders", KeyRef("ledger")))
	decl := declarationOf(class, &AuditService{})

	require.Len(t, decl, 1)
	assert.Equal(t, "orders", decl[0].Member)
	assert.Equal(t, "ledger", ResolveKey(decl[0].Ref))
}
