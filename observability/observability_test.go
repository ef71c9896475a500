package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestInstruments(t *testing.T) (*Instruments, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	in, err := NewInstruments(tp, mp)
	if err != nil {
		t.Fatalf("unexpected error creating instruments: %v", err)
	}
	return in, recorder, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestInstruments_Counters(t *testing.T) {
	in, _, reader := newTestInstruments(t)
	ctx := context.Background()

	in.RecordRegistration(ctx, "scan", false)
	in.RecordRegistration(ctx, "scan", true)
	in.RecordInjection(ctx, "BillingService", 2, 1)
	in.RecordInjection(ctx, "OrderService", 0, 0)
	in.RecordFailure(ctx, "instantiating")
	in.RecordWire(ctx, "scan", 5*time.Millisecond)

	metrics := collect(t, reader)

	if got := sumOf(t, metrics[MetricRegistrations]); got != 2 {
		t.Errorf("expected 2 registrations, got %d", got)
	}
	if got := sumOf(t, metrics[MetricInjections]); got != 2 {
		t.Errorf("expected 2 injections, got %d", got)
	}
	if got := sumOf(t, metrics[MetricMissing]); got != 1 {
		t.Errorf("expected 1 missing dependency, got %d", got)
	}
	if got := sumOf(t, metrics[MetricFailures]); got != 1 {
		t.Errorf("expected 1 failure, got %d", got)
	}

	hist, ok := metrics[MetricWireDuration].(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("expected Histogram[float64], got %T", metrics[MetricWireDuration])
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("expected one wire duration sample, got %+v", hist.DataPoints)
	}
}

func TestWireDurationView(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithView(WireDurationView()))
	in, err := NewInstruments(sdktrace.NewTracerProvider(), mp)
	if err != nil {
		t.Fatalf("unexpected error creating instruments: %v", err)
	}

	in.RecordWire(context.Background(), "eager", 3*time.Millisecond)

	hist, ok := collect(t, reader)[MetricWireDuration].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 {
		t.Fatalf("expected one wire duration data point, got %+v", hist)
	}
	dp := hist.DataPoints[0]
	if len(dp.Bounds) != len(wireBuckets) || dp.Bounds[0] != 0.0005 {
		t.Errorf("expected wire buckets, got %v", dp.Bounds)
	}
	// 3ms lands in the (0.0025, 0.005] bucket.
	if dp.BucketCounts[3] != 1 {
		t.Errorf("expected the sample in bucket 3, got %v", dp.BucketCounts)
	}
}

func TestInstruments_StartSpan(t *testing.T) {
	in, recorder, _ := newTestInstruments(t)

	ctx, span := in.StartSpan(context.Background(), SpanScan, attribute.String(AttrNamespace, "shop"))
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != SpanScan {
		t.Errorf("expected span %s, got %s", SpanScan, ended[0].Name())
	}
	if len(ended[0].Events()) != 1 {
		t.Errorf("expected the error to be recorded as an event, got %d events", len(ended[0].Events()))
	}
	found := false
	for _, kv := range ended[0].Attributes() {
		if string(kv.Key) == AttrNamespace && kv.Value.AsString() == "shop" {
			found = true
		}
	}
	if !found {
		t.Error("expected namespace attribute on span")
	}
}

func TestNopInstruments(t *testing.T) {
	in := NopInstruments()
	if in == nil {
		t.Fatal("expected non-nil instruments")
	}
	ctx, span := in.StartSpan(context.Background(), SpanConstruct)
	in.RecordRegistration(ctx, "eager", false)
	in.RecordWire(ctx, "eager", time.Millisecond)
	span.End()
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

type staticChecker Health

func (s staticChecker) CheckHealth(context.Context) Health { return Health(s) }

func TestServiceHealth(t *testing.T) {
	sh := NewServiceHealth("wiredemo", "1.0.0").Check(context.Background(),
		staticChecker{Name: "a", Status: HealthStatusUp},
		staticChecker{Name: "b", Status: HealthStatusDegraded},
	)
	if sh.Status != HealthStatusDegraded {
		t.Errorf("expected degraded, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "c", Status: HealthStatusDown})
	sh.AddComponent(Health{Name: "d", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected down, got %s", sh.Status)
	}
	if len(sh.Components) != 4 {
		t.Errorf("expected 4 components, got %d", len(sh.Components))
	}
}
