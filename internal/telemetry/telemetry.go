// Package telemetry wires the planner into an OTLP gRPC tracing and
// metrics backend, falling back to no-op providers when an exporter
// cannot be constructed so the planner remains usable without one.
package telemetry

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
)

// Shutdown flushes and tears down the tracer and meter providers InitAll
// installed.
type Shutdown func(context.Context) error

// InitAll configures global tracer and meter providers for service,
// pointed at OTEL_EXPORTER_OTLP_ENDPOINT (default localhost:4317). If the
// exporter cannot be constructed, the corresponding global provider is
// left at its no-op default rather than failing the caller — a collector
// is an operational nicety for this library, not a dependency its callers
// should have to stand up to run the planner.
func InitAll(ctx context.Context, service string) Shutdown {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:4317"
	}

	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(service),
	))

	traceShutdown := initTracer(ctx, endpoint, res)
	metricShutdown := initMeter(ctx, endpoint, res)

	return func(ctx context.Context) error {
		err := traceShutdown(ctx)
		if mErr := metricShutdown(ctx); mErr != nil && err == nil {
			err = mErr
		}
		return err
	}
}

func initTracer(ctx context.Context, endpoint string, res *resource.Resource) Shutdown {
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()),
	)
	if err != nil {
		slog.Warn("trace exporter init failed, continuing without one", "error", err)
		return func(context.Context) error { return nil }
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	slog.Info("tracing initialized", "endpoint", endpoint)
	return tp.Shutdown
}

func initMeter(ctx context.Context, endpoint string, res *resource.Resource) Shutdown {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exp, err := otlpmetricgrpc.New(initCtx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithDialOption(grpc.WithInsecure()),
	)
	if err != nil {
		slog.Warn("metric exporter init failed, continuing without one", "error", err)
		return func(context.Context) error { return nil }
	}
	reader := sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(10*time.Second))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))
	otel.SetMeterProvider(mp)
	slog.Info("metrics initialized", "endpoint", endpoint)
	return mp.Shutdown
}

// Flush calls shutdown with a bounded timeout, for use from a caller's own
// shutdown path.
func Flush(ctx context.Context, shutdown Shutdown) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.Warn("telemetry flush failed", "error", err)
	}
}
