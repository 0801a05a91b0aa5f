// Package lambda adapts Lambda invocations to the application handlers.
package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"city-devices-backend/application/commands"
	apperrors "city-devices-backend/pkg/errors"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// DeviceEventDetail is the detail of a device status EventBridge event
type DeviceEventDetail struct {
	CityID          string `json:"cityId"`
	DeviceID        string `json:"deviceId"`
	DeviceOperation string `json:"deviceOperation"`
}

// FunctionResponse is returned to the invoker of the function
type FunctionResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// StatusUpdater executes status updates
type StatusUpdater interface {
	Handle(ctx context.Context, cmd commands.UpdateDeviceStatusCommand) (*commands.UpdateDeviceStatusResult, error)
}

// EventHandler turns EventBridge events into status updates.
//
// Requests that can never succeed (bad detail, unknown device) produce a 4xx
// response and a nil error so the event is not retried. Any other failure is
// returned as an error and Lambda's retry and dead-letter settings apply.
type EventHandler struct {
	updater StatusUpdater
	logger  *zap.Logger
}

// NewEventHandler creates a new EventBridge event handler
func NewEventHandler(updater StatusUpdater, logger *zap.Logger) *EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandler{
		updater: updater,
		logger:  logger,
	}
}

// HandleEvent processes a single EventBridge event
func (h *EventHandler) HandleEvent(ctx context.Context, event events.CloudWatchEvent) (FunctionResponse, error) {
	h.logger.Debug("processing event",
		zap.String("eventID", event.ID),
		zap.String("source", event.Source),
		zap.String("detailType", event.DetailType),
	)

	var detail DeviceEventDetail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		h.logger.Warn("invalid event detail",
			zap.String("eventID", event.ID),
			zap.Error(err),
		)
		return FunctionResponse{
			StatusCode: http.StatusBadRequest,
			Message:    "invalid event detail",
		}, nil
	}

	cmd := commands.UpdateDeviceStatusCommand{
		DeviceID:  detail.DeviceID,
		CityID:    detail.CityID,
		Operation: detail.DeviceOperation,
	}

	result, err := h.updater.Handle(ctx, cmd)
	if err != nil {
		if apperrors.IsClientError(err) {
			h.logger.Warn("event rejected",
				zap.String("eventID", event.ID),
				zap.String("deviceID", detail.DeviceID),
				zap.String("cityID", detail.CityID),
				zap.Error(err),
			)
			return FunctionResponse{
				StatusCode: apperrors.HTTPStatus(err),
				Message:    apperrors.GetAppError(err).Message,
			}, nil
		}

		h.logger.Error("failed to process event",
			zap.String("eventID", event.ID),
			zap.String("deviceID", detail.DeviceID),
			zap.String("cityID", detail.CityID),
			zap.Error(err),
		)
		return FunctionResponse{
			StatusCode: apperrors.HTTPStatus(err),
			Message:    "failed to update device status",
		}, err
	}

	return FunctionResponse{
		StatusCode: http.StatusOK,
		Message:    fmt.Sprintf("device %s status set to %s", result.DeviceID, result.Status),
	}, nil
}
