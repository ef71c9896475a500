package di

import (
	"errors"
	"testing"

	"github.com/kbukum/wirekit/logger"
	"github.com/kbukum/wirekit/observability"
)

type OrderService struct {
	orders []string
}

func (o *OrderService) Place(id string) { o.orders = append(o.orders, id) }

type BillingService struct {
	OrderService *OrderService `inject:""`
}

type ReportController struct {
	BillingService *BillingService `inject:""`
	OrderService   *OrderService   `inject:"OrderService"`

	initCalls int
	sawWired  bool
}

func (r *ReportController) Initialize() error {
	r.initCalls++
	r.sawWired = r.BillingService != nil && r.BillingService.OrderService != nil && r.OrderService != nil
	return nil
}

// AuditService declares in code and assigns through a setter.
type AuditService struct {
	orders *OrderService
}

func (a *AuditService) Dependencies() Declaration {
	return Declaration{
		{Member: "orders", Ref: RefOf[OrderService]()},
		{Member: "_cache", Ref: KeyRef("cache")},
	}
}

func (a *AuditService) SetDependency(member string, value any) bool {
	if member != "orders" {
		return false
	}
	o, ok := value.(*OrderService)
	if ok {
		a.orders = o
	}
	return ok
}

type PaymentGateway struct{}

func (PaymentGateway) ServiceName() string { return "payments" }

type CheckoutService struct {
	Payments *PaymentGateway `inject:""`
	Ledger   *LedgerService  `inject:"name=ledger"`
	Skipped  *OrderService   `inject:"-"`
	Untagged *OrderService
}

// LedgerService is only ever described as Named("ledger").
type LedgerService struct {
	entries []string
}

type CashierService struct {
	Ledger *LedgerService `inject:""`
}

type CycleA struct {
	B *CycleB `inject:""`
}

type CycleB struct {
	A *CycleA `inject:""`
}

type BrokenService struct{}

type FailingController struct {
	OrderService *OrderService `inject:""`
}

func (f *FailingController) Initialize() error { return errors.New("not ready") }

type Helper struct{}

func newTestContainer(t *testing.T, opts ...Option) *Container {
	t.Helper()
	base := []Option{
		WithLogger(logger.NewNop()),
		WithInstruments(observability.NopInstruments()),
	}
	c := New(append(base, opts...)...)
	t.Cleanup(ClearCurrent)
	return c
}

func shopCatalog() *StaticCatalog {
	return NewStaticCatalog().
		Add("shop",
			Service[OrderService](),
			Service[BillingService](),
			Controller[ReportController](),
			Unmarked[Helper](),
		)
}
