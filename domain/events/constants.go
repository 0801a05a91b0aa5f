package events

// Event sources
const (
	// SourceDevices is the default EventBridge source for this service
	SourceDevices = "city.devices"
)

// Event types, used as the EventBridge detail-type
const (
	TypeDeviceStatusChanged = "DeviceStatusChanged"
)

// Event detail keys
const (
	DetailDeviceID        = "deviceId"
	DetailCityID          = "cityId"
	DetailDeviceOperation = "deviceOperation"
)
