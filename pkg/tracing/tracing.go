// Package tracing wires an OpenTelemetry TracerProvider for the
// matching engine. When no collector is configured it installs nothing
// and hands back a tracer from otel's global provider, which is a no-op
// unless one was set elsewhere, so the matcher never blocks or errors on
// a missing backend.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceName = "lobengine"

// Config controls whether a real OTLP exporter is installed.
type Config struct {
	CollectorEnabled bool
	Endpoint         string
	ConnectTimeout   time.Duration
	ServiceVersion   string
}

// Init returns a Tracer plus a shutdown function. With CollectorEnabled
// true it installs an OTLP-exporting TracerProvider as the global
// provider; with CollectorEnabled false it installs nothing and the
// returned Tracer comes from the current global provider (otel's
// built-in no-op provider unless one was set elsewhere).
func Init(cfg Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.CollectorEnabled {
		return otel.Tracer(serviceName), func(context.Context) error { return nil }, nil
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "0.1.0"
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	conn, err := grpc.DialContext(ctx, cfg.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("tracing: dial collector: %w", err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, nil, fmt.Errorf("tracing: new exporter: %w", err)
	}

	res, err := sdkresource.New(context.Background(),
		sdkresource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
		sdkresource.WithOS(),
		sdkresource.WithProcess(),
	)
	if err != nil {
		res = sdkresource.Default()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(1))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Tracer(serviceName), tp.Shutdown, nil
}
