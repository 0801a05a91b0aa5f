package handlers

import (
	"context"

	"city-devices-backend/application/ports"
	"city-devices-backend/application/queries"
	"city-devices-backend/domain/core/valueobjects"
	pkgerrors "city-devices-backend/pkg/errors"

	"go.uber.org/zap"
)

// GetDeviceHandler handles get device queries
type GetDeviceHandler struct {
	deviceRepo ports.DeviceRepository
	logger     *zap.Logger
}

// NewGetDeviceHandler creates a new get device handler
func NewGetDeviceHandler(deviceRepo ports.DeviceRepository, logger *zap.Logger) *GetDeviceHandler {
	return &GetDeviceHandler{
		deviceRepo: deviceRepo,
		logger:     logger,
	}
}

// Handle executes the get device query
func (h *GetDeviceHandler) Handle(ctx context.Context, query queries.GetDeviceQuery) (*queries.DeviceView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	key, err := valueobjects.NewDeviceKey(query.DeviceID, query.CityID)
	if err != nil {
		return nil, err
	}

	device, err := h.deviceRepo.FindByID(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get device")
	}
	if device == nil {
		return nil, pkgerrors.NewNotFoundError("device").WithDetails(map[string]interface{}{
			"deviceId": key.DeviceID(),
			"cityId":   key.CityID(),
		})
	}

	h.logger.Debug("Device retrieved",
		zap.String("deviceID", key.DeviceID()),
		zap.String("cityID", key.CityID()),
	)

	return queries.NewDeviceView(device), nil
}
