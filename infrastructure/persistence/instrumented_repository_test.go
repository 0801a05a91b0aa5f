package persistence

import (
	"context"
	"testing"

	"city-devices-backend/domain/core/valueobjects"
	apperrors "city-devices-backend/pkg/errors"
	"city-devices-backend/pkg/observability"
	"city-devices-backend/tests/fixtures"
	"city-devices-backend/tests/mocks"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*observability.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return observability.NewTracerProviderFrom(provider.Tracer("test")), recorder
}

func TestInstrumentedRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	device := fixtures.NewDeviceBuilder().MustBuild()
	missing := valueobjects.MustDeviceKey("ghost", "city-123")

	next := new(mocks.MockDeviceRepository)
	next.On("FindByID", mock.Anything, device.Key()).Return(device, nil)
	next.On("FindByID", mock.Anything, missing).Return(nil, nil)

	metrics := observability.NewCollector("test")
	tracer, recorder := newRecordingTracer()
	repo := NewInstrumentedRepository(next, "Devices", metrics, tracer)

	found, err := repo.FindByID(ctx, device.Key())
	require.NoError(t, err)
	assert.Same(t, device, found)

	found, err = repo.FindByID(ctx, missing)
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DBOperations.WithLabelValues("GetItem", "Devices", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DevicesMissing))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "DeviceRepository.FindByID", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestInstrumentedRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	key := valueobjects.MustDeviceKey("device-123", "city-123")
	failing := valueobjects.MustDeviceKey("device-999", "city-123")

	next := new(mocks.MockDeviceRepository)
	next.On("UpdateStatus", mock.Anything, key, valueobjects.DeviceOperationActivate).Return(nil)
	next.On("UpdateStatus", mock.Anything, failing, valueobjects.DeviceOperationInactivate).
		Return(apperrors.NewDatabaseError("UpdateItem", assert.AnError))

	metrics := observability.NewCollector("test")
	tracer, recorder := newRecordingTracer()
	repo := NewInstrumentedRepository(next, "Devices", metrics, tracer)

	require.NoError(t, repo.UpdateStatus(ctx, key, valueobjects.DeviceOperationActivate))
	require.Error(t, repo.UpdateStatus(ctx, failing, valueobjects.DeviceOperationInactivate))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StatusUpdates.WithLabelValues("ON")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.StatusUpdates.WithLabelValues("OFF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DBOperations.WithLabelValues("UpdateItem", "Devices", "error")))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestInstrumentedRepository_NilCollaborators(t *testing.T) {
	next := new(mocks.MockDeviceRepository)
	next.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	repo := NewInstrumentedRepository(next, "Devices", nil, nil)

	assert.NoError(t, repo.UpdateStatus(context.Background(), valueobjects.MustDeviceKey("d", "c"), valueobjects.DeviceOperationActivate))
}
