// Package observability wires the OTel metric SDK to the Prometheus exporter
// and exposes the counters the coordinator records.
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	outcomeCounter     otelmetric.Int64Counter
	generationDuration otelmetric.Float64Histogram
	cacheCounter       otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	outcomeCounter, _ := meter.Int64Counter(
		"drafts.outcomes",
		otelmetric.WithDescription("Coordinator outcomes by action"),
	)

	generationDuration, _ := meter.Float64Histogram(
		"drafts.generation.duration",
		otelmetric.WithDescription("Upstream generation duration"),
		otelmetric.WithUnit("ms"),
	)

	cacheCounter, _ := meter.Int64Counter(
		"drafts.cache.lookups",
		otelmetric.WithDescription("Draft cache lookups by result"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		outcomeCounter:     outcomeCounter,
		generationDuration: generationDuration,
		cacheCounter:       cacheCounter,
	}
}

// RecordOutcome counts one terminal coordinator outcome. NEEDS_USER is a
// deliberate handoff and shares the same counter under its own label; it must
// never be folded into an error series.
func (o *Observability) RecordOutcome(ctx context.Context, action string) {
	if o.outcomeCounter != nil {
		o.outcomeCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("action", action),
		))
	}
}

// RecordGenerationDuration records one upstream generation, successful or not.
func (o *Observability) RecordGenerationDuration(ctx context.Context, duration time.Duration, status string) {
	if o.generationDuration != nil {
		o.generationDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

// RecordCacheLookup counts a draft cache hit or miss.
func (o *Observability) RecordCacheLookup(ctx context.Context, hit bool) {
	if o.cacheCounter != nil {
		result := "miss"
		if hit {
			result = "hit"
		}
		o.cacheCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("result", result),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
