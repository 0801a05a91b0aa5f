package fixtures

import (
	"time"

	"city-devices-backend/domain/core/entities"
	"city-devices-backend/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DeviceBuilder helps create test devices with default values
type DeviceBuilder struct {
	deviceID    string
	cityID      string
	name        string
	description string
	companyID   string
	status      valueobjects.DeviceStatus
	createdAt   time.Time
	updatedAt   time.Time
}

// NewDeviceBuilder returns a builder for an OFF street light in city-123
func NewDeviceBuilder() *DeviceBuilder {
	return &DeviceBuilder{
		deviceID:  "device-123",
		cityID:    "city-123",
		name:      "Street light",
		companyID: "company-123",
		status:    valueobjects.DeviceStatusOff,
		createdAt: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (b *DeviceBuilder) WithDeviceID(deviceID string) *DeviceBuilder {
	b.deviceID = deviceID
	return b
}

func (b *DeviceBuilder) WithCityID(cityID string) *DeviceBuilder {
	b.cityID = cityID
	return b
}

func (b *DeviceBuilder) WithName(name string) *DeviceBuilder {
	b.name = name
	return b
}

func (b *DeviceBuilder) WithDescription(description string) *DeviceBuilder {
	b.description = description
	return b
}

func (b *DeviceBuilder) WithStatus(status valueobjects.DeviceStatus) *DeviceBuilder {
	b.status = status
	return b
}

func (b *DeviceBuilder) WithUpdatedAt(updatedAt time.Time) *DeviceBuilder {
	b.updatedAt = updatedAt
	return b
}

// Key returns the composite key the built device will carry
func (b *DeviceBuilder) Key() valueobjects.DeviceKey {
	return valueobjects.MustDeviceKey(b.deviceID, b.cityID)
}

// MustBuild builds the device
func (b *DeviceBuilder) MustBuild() *entities.Device {
	return entities.ReconstructDevice(b.Key(), b.status, entities.DeviceAttributes{
		Name:        b.name,
		Description: b.description,
		CompanyID:   b.companyID,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.updatedAt,
	})
}

// Item builds the raw DynamoDB item for the device using the default column names
func (b *DeviceBuilder) Item() map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: b.deviceID},
		"cityId": &types.AttributeValueMemberS{Value: b.cityID},
		"status": &types.AttributeValueMemberS{Value: b.status.String()},
	}
	if b.name != "" {
		item["name"] = &types.AttributeValueMemberS{Value: b.name}
	}
	if b.description != "" {
		item["description"] = &types.AttributeValueMemberS{Value: b.description}
	}
	if b.companyID != "" {
		item["companyId"] = &types.AttributeValueMemberS{Value: b.companyID}
	}
	if !b.createdAt.IsZero() {
		item["createdAt"] = &types.AttributeValueMemberS{Value: b.createdAt.Format(time.RFC3339)}
	}
	if !b.updatedAt.IsZero() {
		item["updatedAt"] = &types.AttributeValueMemberS{Value: b.updatedAt.Format(time.RFC3339)}
	}
	return item
}
