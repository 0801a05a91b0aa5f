package commands

import (
	"city-devices-backend/domain/core/valueobjects"
	"city-devices-backend/pkg/validation"
)

// UpdateDeviceStatusCommand requests a device to be switched on or off
type UpdateDeviceStatusCommand struct {
	DeviceID  string `json:"deviceId" validate:"notblank"`
	CityID    string `json:"cityId" validate:"notblank"`
	Operation string `json:"deviceOperation" validate:"notblank"`
}

// Validate validates the UpdateDeviceStatusCommand
func (c UpdateDeviceStatusCommand) Validate() error {
	return validation.Struct(c)
}

// DeviceOperation returns the operation flag as sent
func (c UpdateDeviceStatusCommand) DeviceOperation() valueobjects.DeviceOperation {
	return valueobjects.ParseDeviceOperation(c.Operation)
}

// UpdateDeviceStatusResult describes the outcome of a status update
type UpdateDeviceStatusResult struct {
	DeviceID       string `json:"deviceId"`
	CityID         string `json:"cityId"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
}
