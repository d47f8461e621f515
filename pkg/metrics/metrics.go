// Package metrics instruments BookCore calls: an OpenTelemetry counter
// for matched-order volume, and an HDR histogram for SubmitLimit/
// SubmitMarket call latency, used for tail-latency analysis independent of whatever
// metrics backend the OTel counter is wired to.
package metrics

import (
	"context"
	"sync"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kestrel-markets/lobengine/internal/book"
)

const instrumentationName = "github.com/kestrel-markets/lobengine/pkg/metrics"

// BookMetrics holds the matched-orders counter and the latency
// histogram shared across every instrumented call.
type BookMetrics struct {
	matchedOrdersTotal metric.Int64Counter

	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// NewBookMetrics creates the OTel counter against the global
// MeterProvider (otel's default no-op provider unless one was set
// elsewhere; tracing.Init installs only a TracerProvider) and an HDR
// histogram spanning 1ns to 10s of
// latency at 3 significant figures.
func NewBookMetrics() *BookMetrics {
	meter := otel.GetMeterProvider().Meter(instrumentationName)
	counter, err := meter.Int64Counter(
		"lobengine.matched_orders.total",
		metric.WithDescription("Total quantity matched by the book"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		counter = nil
	}
	return &BookMetrics{
		matchedOrdersTotal: counter,
		hist:               hdrhistogram.New(1, int64(10*time.Second), 3),
	}
}

// RecordMatch increments the matched-order counter by filled and
// records elapsed in the latency histogram.
func (m *BookMetrics) RecordMatch(ctx context.Context, orderType string, filled book.Quantity, elapsed time.Duration) {
	if m.matchedOrdersTotal != nil && filled > 0 {
		m.matchedOrdersTotal.Add(ctx, int64(filled), metric.WithAttributes(attribute.String("order.type", orderType)))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.hist.RecordValue(elapsed.Nanoseconds())
}

// LatencySnapshot returns the current p50/p99/max of the recorded call
// latencies in nanoseconds.
func (m *BookMetrics) LatencySnapshot() (p50, p99, max int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hist.ValueAtQuantile(50), m.hist.ValueAtQuantile(99), m.hist.Max()
}

// InstrumentedBook decorates a *book.BookCore with latency and volume
// metrics around SubmitLimit/SubmitMarket, without the core itself
// knowing metrics exist.
type InstrumentedBook struct {
	*book.BookCore
	metrics *BookMetrics
}

// NewInstrumentedBook wraps bc with m.
func NewInstrumentedBook(bc *book.BookCore, m *BookMetrics) *InstrumentedBook {
	return &InstrumentedBook{BookCore: bc, metrics: m}
}

func (ib *InstrumentedBook) SubmitLimit(o book.NewOrder) book.Result {
	start := time.Now()
	res := ib.BookCore.SubmitLimit(o)
	ib.metrics.RecordMatch(context.Background(), "limit", res.Filled, time.Since(start))
	return res
}

func (ib *InstrumentedBook) SubmitMarket(o book.NewOrder) book.Result {
	start := time.Now()
	res := ib.BookCore.SubmitMarket(o)
	ib.metrics.RecordMatch(context.Background(), "market", res.Filled, time.Since(start))
	return res
}
