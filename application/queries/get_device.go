package queries

import (
	"time"

	"city-devices-backend/domain/core/entities"
	"city-devices-backend/pkg/validation"
)

// GetDeviceQuery looks up a single device by its composite key
type GetDeviceQuery struct {
	DeviceID string `json:"deviceId" validate:"notblank"`
	CityID   string `json:"cityId" validate:"notblank"`
}

// Validate validates the query
func (q GetDeviceQuery) Validate() error {
	return validation.Struct(q)
}

// DeviceView is the read model returned to callers
type DeviceView struct {
	DeviceID    string `json:"deviceId"`
	CityID      string `json:"cityId"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	CompanyID   string `json:"companyId,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// NewDeviceView maps a device entity to its read model
func NewDeviceView(device *entities.Device) *DeviceView {
	view := &DeviceView{
		DeviceID:    device.ID(),
		CityID:      device.CityID(),
		Name:        device.Name(),
		Description: device.Description(),
		CompanyID:   device.CompanyID(),
		Status:      device.Status().String(),
	}
	if !device.CreatedAt().IsZero() {
		view.CreatedAt = device.CreatedAt().Format(time.RFC3339)
	}
	if !device.UpdatedAt().IsZero() {
		view.UpdatedAt = device.UpdatedAt().Format(time.RFC3339)
	}
	return view
}
