// Package bootstrap orchestrates the lifecycle of a wirekit application.
//
// It validates typed configuration, initializes logging and telemetry,
// creates a container locked to the configured strategy, wires it, and
// runs startup/shutdown hooks.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithCatalog(catalog))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// With the scan strategy the configured namespaces are scanned after the
// OnConfigure callbacks run. With the eager strategy the container becomes
// the current container and OnConfigure callbacks construct classes with
// di.Construct or di.MakeCurrent.
package bootstrap
