package valueobjects

import "strings"

// DeviceStatus is the stored on/off state of a device
type DeviceStatus string

const (
	DeviceStatusOn  DeviceStatus = "ON"
	DeviceStatusOff DeviceStatus = "OFF"
)

// ParseDeviceStatus maps a stored value to a status. Anything that is not ON is OFF.
func ParseDeviceStatus(value string) DeviceStatus {
	if strings.EqualFold(strings.TrimSpace(value), string(DeviceStatusOn)) {
		return DeviceStatusOn
	}
	return DeviceStatusOff
}

// String returns the stored representation
func (s DeviceStatus) String() string {
	return string(s)
}

// DeviceOperation is the action requested for a device
type DeviceOperation string

const (
	DeviceOperationActivate   DeviceOperation = "ACTIVATE"
	DeviceOperationInactivate DeviceOperation = "INACTIVATE"
)

// ParseDeviceOperation takes an inbound operation flag exactly as given.
// Only the literal ACTIVATE turns a device on; "activate" or " ACTIVATE " resolve to OFF.
func ParseDeviceOperation(value string) DeviceOperation {
	return DeviceOperation(value)
}

// IsActivate reports whether the operation turns the device on. The match is exact.
func (o DeviceOperation) IsActivate() bool {
	return o == DeviceOperationActivate
}

// TargetStatus returns the status this operation writes: ACTIVATE is ON, everything else OFF.
func (o DeviceOperation) TargetStatus() DeviceStatus {
	if o.IsActivate() {
		return DeviceStatusOn
	}
	return DeviceStatusOff
}

// StatusFor is the functional form of TargetStatus
func StatusFor(op DeviceOperation) DeviceStatus {
	return op.TargetStatus()
}

func (o DeviceOperation) String() string {
	return string(o)
}
