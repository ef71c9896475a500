// Package di is a reflection-driven dependency injection container for
// singleton services and controllers.
//
// Classes are described with Service and Controller and wired with one of
// two strategies, chosen once per container.
//
// # Scan
//
// A Catalog maps namespaces to classes. Scan discovers them, constructs every
// service and registers it under its key, injects services and then
// controllers, and finally calls Initialize on controllers:
//
//	catalog := di.NewStaticCatalog().
//	    Add("shop", di.Service[OrderService](), di.Service[BillingService](),
//	        di.Controller[ReportController]())
//	c := di.New(di.WithCatalog(catalog))
//	result, err := c.Scan(ctx, "shop")
//
// # Eager
//
// Construct wires each instance as it is built. Services are registered before
// their own dependencies are injected:
//
//	c := di.New(di.WithStrategy(di.StrategyEager))
//	orders, _ := di.Make[OrderService](c, di.Service[OrderService]())
//	billing, _ := di.Make[BillingService](c, di.Service[BillingService]())
//
// # Declaring dependencies
//
// Dependencies are declared with `inject` struct tags, the Declarer interface
// or WithDependency. Keys come from ResolveKey: the explicit name if the class
// was registered with Named, else the type's ServiceName if it implements
// Namer, else the type name with its first letter lower-cased.
//
//	type BillingService struct {
//	    OrderService *OrderService `inject:""`
//	}
//
// A dependency that is not registered is left unset and reported as a
// diagnostic. It never fails the pass.
package di
