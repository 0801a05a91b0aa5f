package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"city-devices-backend/application/commands"
	"city-devices-backend/application/queries"
	"city-devices-backend/pkg/api"
	apperrors "city-devices-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DeviceQueryHandler answers device lookups
type DeviceQueryHandler interface {
	Handle(ctx context.Context, query queries.GetDeviceQuery) (*queries.DeviceView, error)
}

// DeviceStatusHandler executes status updates
type DeviceStatusHandler interface {
	Handle(ctx context.Context, cmd commands.UpdateDeviceStatusCommand) (*commands.UpdateDeviceStatusResult, error)
}

// DeviceHandler handles device-related HTTP requests
type DeviceHandler struct {
	queryHandler  DeviceQueryHandler
	statusHandler DeviceStatusHandler
	logger        *zap.Logger
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(
	queryHandler DeviceQueryHandler,
	statusHandler DeviceStatusHandler,
	logger *zap.Logger,
) *DeviceHandler {
	return &DeviceHandler{
		queryHandler:  queryHandler,
		statusHandler: statusHandler,
		logger:        logger,
	}
}

// GetDevice handles GET /cities/{cityID}/devices/{deviceID}
func (h *DeviceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	query := queries.GetDeviceQuery{
		DeviceID: chi.URLParam(r, "deviceID"),
		CityID:   chi.URLParam(r, "cityID"),
	}

	view, err := h.queryHandler.Handle(r.Context(), query)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := api.Success(w, http.StatusOK, view); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// UpdateStatus handles PUT /cities/{cityID}/devices/{deviceID}/status
func (h *DeviceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateStatusRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		h.respondError(w, r, apperrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	cmd := commands.UpdateDeviceStatusCommand{
		DeviceID:  chi.URLParam(r, "deviceID"),
		CityID:    chi.URLParam(r, "cityID"),
		Operation: req.DeviceOperation,
	}

	if _, err := h.statusHandler.Handle(r.Context(), cmd); err != nil {
		h.respondError(w, r, err)
		return
	}

	_ = api.Success(w, http.StatusNoContent, nil)
}

func (h *DeviceHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	resp := api.ErrorResponse{
		Error:     "internal server error",
		RequestID: chimiddleware.GetReqID(r.Context()),
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Type = string(appErr.Type)
		if status < http.StatusInternalServerError {
			resp.Error = appErr.Message
		}
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}

	if err := api.Error(w, status, resp); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
