package entities

import (
	"time"

	"city-devices-backend/domain/core/valueobjects"
)

// Device is a city device row. Devices are provisioned outside this service;
// the only mutation it supports is a status change.
type Device struct {
	key         valueobjects.DeviceKey
	name        string
	description string
	companyID   string
	status      valueobjects.DeviceStatus
	createdAt   time.Time
	updatedAt   time.Time
}

// DeviceAttributes carries the optional descriptive attributes of a stored device
type DeviceAttributes struct {
	Name        string
	Description string
	CompanyID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReconstructDevice rebuilds a device from repository data
func ReconstructDevice(key valueobjects.DeviceKey, status valueobjects.DeviceStatus, attrs DeviceAttributes) *Device {
	return &Device{
		key:         key,
		name:        attrs.Name,
		description: attrs.Description,
		companyID:   attrs.CompanyID,
		status:      status,
		createdAt:   attrs.CreatedAt,
		updatedAt:   attrs.UpdatedAt,
	}
}

// Key returns the composite key of the device
func (d *Device) Key() valueobjects.DeviceKey {
	return d.key
}

// ID returns the device identifier
func (d *Device) ID() string {
	return d.key.DeviceID()
}

// CityID returns the city the device belongs to
func (d *Device) CityID() string {
	return d.key.CityID()
}

func (d *Device) Name() string        { return d.name }
func (d *Device) Description() string { return d.description }
func (d *Device) CompanyID() string   { return d.companyID }

// Status returns the current on/off state
func (d *Device) Status() valueobjects.DeviceStatus {
	return d.status
}

// IsOn reports whether the device is switched on
func (d *Device) IsOn() bool {
	return d.status == valueobjects.DeviceStatusOn
}

// CreatedAt returns when the device was provisioned, zero if unknown
func (d *Device) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns when the device was last changed, zero if unknown
func (d *Device) UpdatedAt() time.Time {
	return d.updatedAt
}

// ApplyOperation sets the status the operation resolves to and reports whether it changed.
// The caller persists the result; the entity never talks to the table.
func (d *Device) ApplyOperation(op valueobjects.DeviceOperation) (previous valueobjects.DeviceStatus, changed bool) {
	previous = d.status
	d.status = op.TargetStatus()
	return previous, previous != d.status
}
