package observability

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Endpoint    string
	SampleRate  float64
}

// TracerProvider wraps the OpenTelemetry provider used by the service
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing creates a tracer provider. When tracing is disabled the
// returned provider hands out no-op spans.
func InitTracing(ctx context.Context, config TracingConfig) (*TracerProvider, error) {
	if config.ServiceName == "" {
		config.ServiceName = "city-devices"
	}

	if !config.Enabled {
		return NewNoopTracerProvider(config.ServiceName), nil
	}

	exporter, err := createOTLPExporter(ctx, config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	res, err := createResource(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(createSampler(config)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{
		provider: tp,
		tracer:   tp.Tracer(config.ServiceName),
	}, nil
}

// NewNoopTracerProvider returns a provider whose spans record nothing
func NewNoopTracerProvider(serviceName string) *TracerProvider {
	return &TracerProvider{
		tracer: noop.NewTracerProvider().Tracer(serviceName),
	}
}

// NewTracerProviderFrom wraps an existing tracer, mainly for tests using an in-memory recorder
func NewTracerProviderFrom(tracer trace.Tracer) *TracerProvider {
	return &TracerProvider{tracer: tracer}
}

func createOTLPExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint == "" {
		// The ADOT Lambda layer listens here
		endpoint = "localhost:4317"
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(endpoint),
	}
	if endpoint == "localhost:4317" || endpoint == "127.0.0.1:4317" {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
}

func createResource(config TracingConfig) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		attribute.String("deployment.environment", config.Environment),
		attribute.String("cloud.provider", "aws"),
	}

	if functionName := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); functionName != "" {
		attrs = append(attrs,
			attribute.String("faas.name", functionName),
			attribute.String("faas.version", os.Getenv("AWS_LAMBDA_FUNCTION_VERSION")),
			attribute.String("cloud.region", os.Getenv("AWS_REGION")),
		)
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

func createSampler(config TracingConfig) sdktrace.Sampler {
	if config.SampleRate > 0 && config.SampleRate < 1 {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRate))
	}
	if config.Environment == "production" {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.05))
	}
	return sdktrace.AlwaysSample()
}

// StartSpan starts a new span
func (tp *TracerProvider) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tp.tracer.Start(ctx, name, opts...)
}

// EndSpan records err on the span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Shutdown flushes and stops the exporter
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

// ForceFlush exports any buffered spans
func (tp *TracerProvider) ForceFlush(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	return tp.provider.ForceFlush(ctx)
}
