package valueobjects

import (
	"fmt"
	"strings"

	pkgerrors "city-devices-backend/pkg/errors"
)

// DeviceKey is the composite primary key of a device row.
// Both parts are always present; a zero DeviceKey never reaches the table.
type DeviceKey struct {
	deviceID string
	cityID   string
}

// NewDeviceKey creates a composite key, rejecting blank parts.
// Parts are stored as given so the key names exactly the row the caller asked for.
func NewDeviceKey(deviceID, cityID string) (DeviceKey, error) {
	if strings.TrimSpace(deviceID) == "" {
		return DeviceKey{}, pkgerrors.NewValidationError("device ID cannot be empty")
	}
	if strings.TrimSpace(cityID) == "" {
		return DeviceKey{}, pkgerrors.NewValidationError("city ID cannot be empty")
	}

	return DeviceKey{deviceID: deviceID, cityID: cityID}, nil
}

// MustDeviceKey is NewDeviceKey for keys known to be valid; it panics otherwise.
func MustDeviceKey(deviceID, cityID string) DeviceKey {
	key, err := NewDeviceKey(deviceID, cityID)
	if err != nil {
		panic(err)
	}
	return key
}

// DeviceID returns the partition part of the key
func (k DeviceKey) DeviceID() string {
	return k.deviceID
}

// CityID returns the sort part of the key
func (k DeviceKey) CityID() string {
	return k.cityID
}

// IsZero reports whether the key was never initialized
func (k DeviceKey) IsZero() bool {
	return k.deviceID == "" || k.cityID == ""
}

// Equals checks if two keys address the same row
func (k DeviceKey) Equals(other DeviceKey) bool {
	return k.deviceID == other.deviceID && k.cityID == other.cityID
}

// String returns a printable form used in logs and event resources
func (k DeviceKey) String() string {
	return fmt.Sprintf("%s/%s", k.cityID, k.deviceID)
}
