package events

import (
	"time"

	"city-devices-backend/domain/core/valueobjects"
)

// DeviceStatusChanged is raised after a status update has been written
type DeviceStatusChanged struct {
	BaseEvent
	DeviceID        string `json:"deviceId"`
	CityID          string `json:"cityId"`
	DeviceOperation string `json:"deviceOperation"`
	PreviousStatus  string `json:"previousStatus"`
	Status          string `json:"status"`
}

// NewDeviceStatusChanged creates a DeviceStatusChanged event
func NewDeviceStatusChanged(
	key valueobjects.DeviceKey,
	operation valueobjects.DeviceOperation,
	previous valueobjects.DeviceStatus,
	current valueobjects.DeviceStatus,
	timestamp time.Time,
) *DeviceStatusChanged {
	return &DeviceStatusChanged{
		BaseEvent:       newBaseEvent(key.DeviceID(), TypeDeviceStatusChanged, timestamp),
		DeviceID:        key.DeviceID(),
		CityID:          key.CityID(),
		DeviceOperation: string(operation),
		PreviousStatus:  previous.String(),
		Status:          current.String(),
	}
}

// Changed reports whether the write actually flipped the status
func (e *DeviceStatusChanged) Changed() bool {
	return e.PreviousStatus != e.Status
}
