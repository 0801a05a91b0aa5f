package entities

import (
	"testing"
	"time"

	"city-devices-backend/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
)

func TestReconstructDevice(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	key := valueobjects.MustDeviceKey("device-1", "city-1")

	device := ReconstructDevice(key, valueobjects.DeviceStatusOn, DeviceAttributes{
		Name:      "Street light 12",
		CompanyID: "company-9",
		CreatedAt: created,
	})

	assert.Equal(t, "device-1", device.ID())
	assert.Equal(t, "city-1", device.CityID())
	assert.True(t, device.Key().Equals(key))
	assert.Equal(t, "Street light 12", device.Name())
	assert.Equal(t, "company-9", device.CompanyID())
	assert.Empty(t, device.Description())
	assert.True(t, device.IsOn())
	assert.Equal(t, created, device.CreatedAt())
	assert.True(t, device.UpdatedAt().IsZero())
}

func TestDevice_ApplyOperation(t *testing.T) {
	tests := []struct {
		name        string
		initial     valueobjects.DeviceStatus
		operation   valueobjects.DeviceOperation
		want        valueobjects.DeviceStatus
		wantChanged bool
	}{
		{"activate off device", valueobjects.DeviceStatusOff, valueobjects.DeviceOperationActivate, valueobjects.DeviceStatusOn, true},
		{"activate on device", valueobjects.DeviceStatusOn, valueobjects.DeviceOperationActivate, valueobjects.DeviceStatusOn, false},
		{"inactivate on device", valueobjects.DeviceStatusOn, valueobjects.DeviceOperationInactivate, valueobjects.DeviceStatusOff, true},
		{"unknown operation turns off", valueobjects.DeviceStatusOn, valueobjects.DeviceOperation("RESET"), valueobjects.DeviceStatusOff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := ReconstructDevice(valueobjects.MustDeviceKey("d", "c"), tt.initial, DeviceAttributes{})

			previous, changed := device.ApplyOperation(tt.operation)

			assert.Equal(t, tt.initial, previous)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.want, device.Status())
			assert.True(t, device.UpdatedAt().IsZero())
		})
	}
}
