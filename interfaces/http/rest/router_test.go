package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"city-devices-backend/application/commands"
	"city-devices-backend/application/queries"
	apperrors "city-devices-backend/pkg/errors"
	"city-devices-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockQueryHandler struct {
	mock.Mock
}

func (m *mockQueryHandler) Handle(ctx context.Context, query queries.GetDeviceQuery) (*queries.DeviceView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.DeviceView), args.Error(1)
}

type mockStatusHandler struct {
	mock.Mock
}

func (m *mockStatusHandler) Handle(ctx context.Context, cmd commands.UpdateDeviceStatusCommand) (*commands.UpdateDeviceStatusResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commands.UpdateDeviceStatusResult), args.Error(1)
}

func setupRouter(q *mockQueryHandler, s *mockStatusHandler, metrics *observability.Collector) http.Handler {
	return NewRouter(q, s, metrics, zap.NewNop(), RouterOptions{EnableCORS: true}).Setup()
}

func TestRouter_Health(t *testing.T) {
	router := setupRouter(new(mockQueryHandler), new(mockStatusHandler), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_GetDevice(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		q := new(mockQueryHandler)
		q.On("Handle", mock.Anything, queries.GetDeviceQuery{DeviceID: "device-123", CityID: "city-123"}).
			Return(&queries.DeviceView{DeviceID: "device-123", CityID: "city-123", Status: "ON"}, nil)

		router := setupRouter(q, new(mockStatusHandler), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cities/city-123/devices/device-123", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var view queries.DeviceView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, "ON", view.Status)
		q.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		q := new(mockQueryHandler)
		q.On("Handle", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("device"))

		router := setupRouter(q, new(mockStatusHandler), nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cities/city-123/devices/ghost", nil)
		req.Header.Set("X-Request-ID", "req-1")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "device not found", body["error"])
		assert.Equal(t, "NOT_FOUND", body["type"])
		assert.Equal(t, "req-1", body["requestId"])
	})

	t.Run("infrastructure error hides details", func(t *testing.T) {
		q := new(mockQueryHandler)
		q.On("Handle", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewDatabaseError("GetItem", assert.AnError))

		router := setupRouter(q, new(mockStatusHandler), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cities/city-123/devices/device-123", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestRouter_UpdateStatus(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		s := new(mockStatusHandler)
		s.On("Handle", mock.Anything, commands.UpdateDeviceStatusCommand{
			DeviceID:  "device-123",
			CityID:    "city-123",
			Operation: "ACTIVATE",
		}).Return(&commands.UpdateDeviceStatusResult{Status: "ON"}, nil)

		router := setupRouter(new(mockQueryHandler), s, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cities/city-123/devices/device-123/status",
			strings.NewReader(`{"deviceOperation":"ACTIVATE"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		s.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		s := new(mockStatusHandler)
		router := setupRouter(new(mockQueryHandler), s, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cities/city-123/devices/device-123/status",
			strings.NewReader(`{not json`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		s.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("validation error", func(t *testing.T) {
		s := new(mockStatusHandler)
		s.On("Handle", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewValidationError("deviceOperation is required"))

		router := setupRouter(new(mockQueryHandler), s, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cities/city-123/devices/device-123/status",
			strings.NewReader(`{}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "deviceOperation is required")
	})

	t.Run("circuit open", func(t *testing.T) {
		s := new(mockStatusHandler)
		s.On("Handle", mock.Anything, mock.Anything).Return(nil, apperrors.NewUnavailableError("Devices"))

		router := setupRouter(new(mockQueryHandler), s, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cities/city-123/devices/device-123/status",
			strings.NewReader(`{"deviceOperation":"INACTIVATE"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRouter_Metrics(t *testing.T) {
	metrics := observability.NewCollector("test")
	metrics.RecordStatusUpdate("ON")

	router := setupRouter(new(mockQueryHandler), new(mockStatusHandler), metrics)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_device_status_updates_total")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	router := setupRouter(new(mockQueryHandler), new(mockStatusHandler), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := setupRouter(new(mockQueryHandler), new(mockStatusHandler), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cities/city-123/devices/device-123/status", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
