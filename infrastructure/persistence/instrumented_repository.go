package persistence

import (
	"context"
	"time"

	"city-devices-backend/application/ports"
	"city-devices-backend/domain/core/entities"
	"city-devices-backend/domain/core/valueobjects"
	"city-devices-backend/pkg/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedRepository records a span and metrics for every table call
type InstrumentedRepository struct {
	next      ports.DeviceRepository
	tableName string
	metrics   *observability.Collector
	tracer    *observability.TracerProvider
}

var _ ports.DeviceRepository = (*InstrumentedRepository)(nil)

// NewInstrumentedRepository wraps next. A nil tracer disables spans; a nil collector disables metrics.
func NewInstrumentedRepository(
	next ports.DeviceRepository,
	tableName string,
	metrics *observability.Collector,
	tracer *observability.TracerProvider,
) *InstrumentedRepository {
	if tracer == nil {
		tracer = observability.NewNoopTracerProvider("city-devices")
	}
	return &InstrumentedRepository{
		next:      next,
		tableName: tableName,
		metrics:   metrics,
		tracer:    tracer,
	}
}

func (r *InstrumentedRepository) FindByID(ctx context.Context, key valueobjects.DeviceKey) (*entities.Device, error) {
	ctx, span := r.startSpan(ctx, "DeviceRepository.FindByID", "GetItem", key)
	start := time.Now()

	device, err := r.next.FindByID(ctx, key)

	r.metrics.RecordDBOperation("GetItem", r.tableName, time.Since(start), err)
	if err == nil && device == nil {
		r.metrics.RecordMissingDevice()
	}
	span.SetAttributes(attribute.Bool("device.found", device != nil))
	observability.EndSpan(span, err)

	return device, err
}

func (r *InstrumentedRepository) UpdateStatus(ctx context.Context, key valueobjects.DeviceKey, operation valueobjects.DeviceOperation) error {
	ctx, span := r.startSpan(ctx, "DeviceRepository.UpdateStatus", "UpdateItem", key)
	status := valueobjects.StatusFor(operation)
	span.SetAttributes(
		attribute.String("device.operation", operation.String()),
		attribute.String("device.status", status.String()),
	)
	start := time.Now()

	err := r.next.UpdateStatus(ctx, key, operation)

	r.metrics.RecordDBOperation("UpdateItem", r.tableName, time.Since(start), err)
	if err == nil {
		r.metrics.RecordStatusUpdate(status.String())
	}
	observability.EndSpan(span, err)

	return err
}

func (r *InstrumentedRepository) startSpan(ctx context.Context, name, operation string, key valueobjects.DeviceKey) (context.Context, trace.Span) {
	return r.tracer.StartSpan(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "dynamodb"),
			attribute.String("db.operation", operation),
			attribute.String("aws.dynamodb.table_names", r.tableName),
			attribute.String("device.id", key.DeviceID()),
			attribute.String("device.city_id", key.CityID()),
		),
	)
}
