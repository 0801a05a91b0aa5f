package dynamodb

import (
	"fmt"
	"time"

	"city-devices-backend/domain/core/entities"
	"city-devices-backend/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Column names of the devices table
const (
	attrDeviceID = "id"
	attrCityID   = "cityId"
	attrStatus   = "status"
)

// deviceItem is the stored shape of a device row
type deviceItem struct {
	ID          string `dynamodbav:"id"`
	CityID      string `dynamodbav:"cityId"`
	Status      string `dynamodbav:"status"`
	Name        string `dynamodbav:"name,omitempty"`
	Description string `dynamodbav:"description,omitempty"`
	CompanyID   string `dynamodbav:"companyId,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt,omitempty"`
	UpdatedAt   string `dynamodbav:"updatedAt,omitempty"`
}

// buildKey returns the full composite key for a device
func buildKey(key valueobjects.DeviceKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrDeviceID: &types.AttributeValueMemberS{Value: key.DeviceID()},
		attrCityID:   &types.AttributeValueMemberS{Value: key.CityID()},
	}
}

// mapDevice converts a raw item to a Device. An empty item means the row does not exist.
func mapDevice(item map[string]types.AttributeValue) (*entities.Device, error) {
	if len(item) == 0 {
		return nil, nil
	}

	var stored deviceItem
	if err := attributevalue.UnmarshalMap(item, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal device item: %w", err)
	}

	key, err := valueobjects.NewDeviceKey(stored.ID, stored.CityID)
	if err != nil {
		return nil, fmt.Errorf("device item has an incomplete key: %w", err)
	}

	return entities.ReconstructDevice(key, valueobjects.ParseDeviceStatus(stored.Status), entities.DeviceAttributes{
		Name:        stored.Name,
		Description: stored.Description,
		CompanyID:   stored.CompanyID,
		CreatedAt:   parseTimestamp(stored.CreatedAt),
		UpdatedAt:   parseTimestamp(stored.UpdatedAt),
	}), nil
}

// parseTimestamp returns the zero time for missing or malformed values
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
