// Package inspect serves a read-only HTTP view of a container: registered
// services, controllers, pending classes, diagnostics and health.
//
// # Usage
//
//	srv := inspect.New(cfg.Inspect, log)
//	srv.RegisterEndpoints(cfg.Name, app.Container)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Stop(context.Background())
//
// Subpackages:
//   - endpoint: Gin handlers for probes, version and container views
//   - middleware: net/http middleware applied around every route
package inspect
