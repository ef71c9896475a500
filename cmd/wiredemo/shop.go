package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/kbukum/wirekit/di"
)

// Order is a placed order.
type Order struct {
	ID     string
	Amount float64
}

// OrderService keeps placed orders in memory.
type OrderService struct {
	mu     sync.Mutex
	orders []Order
}

func newOrderService() *OrderService {
	s := &OrderService{}
	s.Place("A-1001", 42.50)
	s.Place("A-1002", 17.25)
	return s
}

// Place records an order.
func (s *OrderService) Place(id string, amount float64) Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := Order{ID: id, Amount: amount}
	s.orders = append(s.orders, o)
	return o
}

// Orders returns a copy of the placed orders.
func (s *OrderService) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// BillingService bills orders.
type BillingService struct {
	OrderService *OrderService `inject:""`
}

// Total sums every placed order.
func (b *BillingService) Total() float64 {
	var total float64
	for _, o := range b.OrderService.Orders() {
		total += o.Amount
	}
	return total
}

// Invoice describes the order with the given ID.
func (b *BillingService) Invoice(id string) string {
	for _, o := range b.OrderService.Orders() {
		if o.ID == id {
			return fmt.Sprintf("invoice %s: %.2f", o.ID, o.Amount)
		}
	}
	return fmt.Sprintf("invoice %s: no such order", id)
}

// ReportController prints a report once wired.
type ReportController struct {
	BillingService *BillingService `inject:""`
	OrderService   *OrderService   `inject:"OrderService"`

	out io.Writer
}

// Initialize runs after both services are injected.
func (r *ReportController) Initialize() error {
	fmt.Fprintln(r.out, "--- Report ---")
	for _, o := range r.OrderService.Orders() {
		fmt.Fprintf(r.out, "ReportController received from BillingService: '%s'\n", r.BillingService.Invoice(o.ID))
	}
	fmt.Fprintf(r.out, "total: %.2f\n", r.BillingService.Total())
	fmt.Fprintln(r.out, "--- Report Finished ---")
	return nil
}

func orderServiceClass() *di.Class {
	return di.Service[OrderService](di.WithFactory(newOrderService))
}

func reportControllerClass(out io.Writer) *di.Class {
	return di.Controller[ReportController](di.WithFactory(func() *ReportController {
		return &ReportController{out: out}
	}))
}

// shopCatalog holds two namespaces: "shop" with the services and "reports"
// with the controller, importing "shop".
func shopCatalog(out io.Writer) *di.StaticCatalog {
	return di.NewStaticCatalog().
		Add("shop", orderServiceClass(), di.Service[BillingService]()).
		Add("reports", reportControllerClass(out)).
		Import("reports", "shop")
}

// constructShop builds the example through the current container, in
// dependency order.
func constructShop(out io.Writer) error {
	if _, err := di.MakeCurrent[OrderService](orderServiceClass()); err != nil {
		return err
	}
	if _, err := di.MakeCurrent[BillingService](di.Service[BillingService]()); err != nil {
		return err
	}
	_, err := di.MakeCurrent[ReportController](reportControllerClass(out))
	return err
}
