package handlers

import (
	"context"
	"time"

	"city-devices-backend/application/commands"
	"city-devices-backend/application/ports"
	"city-devices-backend/domain/core/valueobjects"
	"city-devices-backend/domain/events"
	pkgerrors "city-devices-backend/pkg/errors"

	"go.uber.org/zap"
)

// UpdateDeviceStatusHandler handles device status commands
type UpdateDeviceStatusHandler struct {
	deviceRepo ports.DeviceRepository
	eventBus   ports.EventBus
	logger     *zap.Logger
	now        func() time.Time
}

// NewUpdateDeviceStatusHandler creates a new update device status handler.
// eventBus may be nil, in which case no event is published.
func NewUpdateDeviceStatusHandler(
	deviceRepo ports.DeviceRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *UpdateDeviceStatusHandler {
	return &UpdateDeviceStatusHandler{
		deviceRepo: deviceRepo,
		eventBus:   eventBus,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle executes the update device status command
func (h *UpdateDeviceStatusHandler) Handle(ctx context.Context, cmd commands.UpdateDeviceStatusCommand) (*commands.UpdateDeviceStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	key, err := valueobjects.NewDeviceKey(cmd.DeviceID, cmd.CityID)
	if err != nil {
		return nil, err
	}
	operation := cmd.DeviceOperation()

	device, err := h.deviceRepo.FindByID(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get device")
	}
	if device == nil {
		h.logger.Warn("Device not found for status update",
			zap.String("deviceID", key.DeviceID()),
			zap.String("cityID", key.CityID()),
		)
		return nil, pkgerrors.NewNotFoundError("device")
	}

	if err := h.deviceRepo.UpdateStatus(ctx, key, operation); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to update device status for %s", key)
	}

	previous, changed := device.ApplyOperation(operation)

	h.logger.Info("Device status updated",
		zap.String("deviceID", key.DeviceID()),
		zap.String("cityID", key.CityID()),
		zap.String("operation", string(operation)),
		zap.String("previousStatus", previous.String()),
		zap.String("status", device.Status().String()),
		zap.Bool("changed", changed),
	)

	// Publish failures are logged, not returned: the row is already written.
	if h.eventBus != nil {
		event := events.NewDeviceStatusChanged(key, operation, previous, device.Status(), h.now().UTC())
		if err := h.eventBus.Publish(ctx, event); err != nil {
			h.logger.Error("Failed to publish device status event",
				zap.Error(err),
				zap.String("deviceID", key.DeviceID()),
				zap.String("eventID", event.GetEventID()),
			)
		}
	}

	return &commands.UpdateDeviceStatusResult{
		DeviceID:       key.DeviceID(),
		CityID:         key.CityID(),
		PreviousStatus: previous.String(),
		Status:         device.Status().String(),
	}, nil
}
