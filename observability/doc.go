// Package observability provides OpenTelemetry tracing and metrics for the
// di container.
//
// Exporters:
//
//	exp := observability.ExporterConfig{ServiceName: "billing", Endpoint: "localhost:4318", Insecure: true}
//	tp, err := observability.InitTracer(ctx, observability.TracerConfig{ExporterConfig: exp, SampleRate: 1})
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.MeterConfig{ExporterConfig: exp})
//	defer mp.Shutdown(ctx)
//
// Container instruments (phase spans, registration and injection counters):
//
//	c := di.New(di.WithInstruments(observability.DefaultInstruments()))
//
// Health:
//
//	health := observability.NewServiceHealth("billing", "1.0.0")
//	health.AddComponent(observability.Health{Name: "di", Status: observability.HealthStatusUp})
package observability
