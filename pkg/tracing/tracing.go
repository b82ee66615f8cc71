package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/pkg/logger"
)

var tracer trace.Tracer

// InitTracer sets up the global OpenTelemetry tracer provider exporting OTLP
// over HTTP. An empty exporter endpoint disables tracing and returns a no-op
// shutdown, so local runs need no collector.
func InitTracer(serviceName, serviceNamespace, serviceVersion, serviceInstanceID, environment, exporterEndpoint string) (func(context.Context) error, error) {
	if exporterEndpoint == "" {
		logger.Info("Tracing disabled: exporter endpoint not set")
		return func(context.Context) error { return nil }, nil
	}

	logger.Info("Initializing OpenTelemetry tracer",
		zap.String("service", serviceName),
		zap.String("namespace", serviceNamespace),
		zap.String("version", serviceVersion),
		zap.String("environment", environment),
		zap.String("endpoint", exporterEndpoint))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The collector sits on the internal network, plain HTTP.
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(exporterEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace(serviceNamespace),
			semconv.ServiceVersion(serviceVersion),
			semconv.ServiceInstanceID(serviceInstanceID),
			attribute.String("deployment.environment.name", environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Batch with bounded queue and export timeouts so a slow collector
	// drops spans instead of blocking requests.
	bsp := sdktrace.NewBatchSpanProcessor(exporter,
		sdktrace.WithBatchTimeout(2*time.Second),
		sdktrace.WithExportTimeout(5*time.Second),
		sdktrace.WithMaxQueueSize(2048),
		sdktrace.WithMaxExportBatchSize(512),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bsp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracer = tp.Tracer(serviceName)

	logger.Info("OpenTelemetry tracer initialized successfully")

	return tp.Shutdown, nil
}

// Tracer returns the global tracer instance
func Tracer() trace.Tracer {
	return tracer
}

// StartSpan starts a span, or returns the ambient span when tracing is off.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName)
}
