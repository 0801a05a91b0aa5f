package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"city-devices-backend/domain/core/valueobjects"
	apperrors "city-devices-backend/pkg/errors"
	"city-devices-backend/tests/fixtures"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDynamoDB struct {
	mock.Mock
}

func (m *mockDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (m *mockDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.UpdateItemOutput), args.Error(1)
}

func newTestRepository(client DynamoDBAPI) *DeviceRepository {
	return NewDeviceRepository(client, RepositoryConfig{TableName: "Devices"}, zap.NewNop())
}

func stringAttr(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	v, ok := item[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s should be a string", name)
	return v.Value
}

func hasFullKey(key map[string]types.AttributeValue, deviceID, cityID string) bool {
	if len(key) != 2 {
		return false
	}
	id, ok := key["id"].(*types.AttributeValueMemberS)
	if !ok || id.Value != deviceID {
		return false
	}
	city, ok := key["cityId"].(*types.AttributeValueMemberS)
	return ok && city.Value == cityID
}

func TestDeviceRepository_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns mapped device", func(t *testing.T) {
		// Arrange
		client := new(mockDynamoDB)
		updatedAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
		builder := fixtures.NewDeviceBuilder().
			WithStatus(valueobjects.DeviceStatusOn).
			WithDescription("Main square").
			WithUpdatedAt(updatedAt)

		client.On("GetItem", ctx, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "Devices" && hasFullKey(in.Key, "device-123", "city-123")
		})).Return(&dynamodb.GetItemOutput{Item: builder.Item()}, nil)

		repo := newTestRepository(client)

		// Act
		device, err := repo.FindByID(ctx, builder.Key())

		// Assert
		require.NoError(t, err)
		require.NotNil(t, device)
		assert.Equal(t, "device-123", device.ID())
		assert.Equal(t, "city-123", device.CityID())
		assert.True(t, device.IsOn())
		assert.Equal(t, "Street light", device.Name())
		assert.Equal(t, "Main square", device.Description())
		assert.Equal(t, "company-123", device.CompanyID())
		assert.True(t, updatedAt.Equal(device.UpdatedAt()))
		client.AssertExpectations(t)
	})

	t.Run("missing row returns nil without error", func(t *testing.T) {
		client := new(mockDynamoDB)
		client.On("GetItem", ctx, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		repo := newTestRepository(client)

		device, err := repo.FindByID(ctx, valueobjects.MustDeviceKey("ghost", "city-123"))

		assert.NoError(t, err)
		assert.Nil(t, device)
	})

	t.Run("transport error is a database error", func(t *testing.T) {
		client := new(mockDynamoDB)
		apiErr := &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}
		client.On("GetItem", ctx, mock.Anything).Return(nil, apiErr)

		repo := newTestRepository(client)

		device, err := repo.FindByID(ctx, valueobjects.MustDeviceKey("device-123", "city-123"))

		assert.Nil(t, device)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
		assert.Equal(t, "ProvisionedThroughputExceededException", apperrors.GetAppError(err).Code)

		var target smithy.APIError
		assert.True(t, errors.As(err, &target))
	})

	t.Run("consistent read is forwarded", func(t *testing.T) {
		client := new(mockDynamoDB)
		client.On("GetItem", ctx, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return in.ConsistentRead != nil && *in.ConsistentRead
		})).Return(&dynamodb.GetItemOutput{}, nil)

		repo := NewDeviceRepository(client, RepositoryConfig{TableName: "Devices", ConsistentRead: true}, nil)

		_, err := repo.FindByID(ctx, valueobjects.MustDeviceKey("device-123", "city-123"))

		assert.NoError(t, err)
		client.AssertExpectations(t)
	})
}

func TestDeviceRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		operation valueobjects.DeviceOperation
		want      string
	}{
		{"activate turns on", valueobjects.DeviceOperationActivate, "ON"},
		{"inactivate turns off", valueobjects.DeviceOperationInactivate, "OFF"},
		{"unknown operation turns off", valueobjects.DeviceOperation("REBOOT"), "OFF"},
		{"empty operation turns off", valueobjects.DeviceOperation(""), "OFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			client := new(mockDynamoDB)
			var captured *dynamodb.UpdateItemInput
			client.On("UpdateItem", ctx, mock.AnythingOfType("*dynamodb.UpdateItemInput")).
				Run(func(args mock.Arguments) {
					captured = args.Get(1).(*dynamodb.UpdateItemInput)
				}).
				Return(&dynamodb.UpdateItemOutput{}, nil)

			repo := newTestRepository(client)

			// Act
			err := repo.UpdateStatus(ctx, valueobjects.MustDeviceKey("device-123", "city-123"), tt.operation)

			// Assert
			require.NoError(t, err)
			require.NotNil(t, captured)
			assert.Equal(t, "Devices", *captured.TableName)
			assert.True(t, hasFullKey(captured.Key, "device-123", "city-123"))
			assert.Nil(t, captured.ConditionExpression)
			require.NotNil(t, captured.UpdateExpression)
			assert.Contains(t, *captured.UpdateExpression, "SET")

			// Only the status attribute is written
			require.Len(t, captured.ExpressionAttributeNames, 1)
			require.Len(t, captured.ExpressionAttributeValues, 1)
			for _, name := range captured.ExpressionAttributeNames {
				assert.Equal(t, "status", name)
			}
			for _, value := range captured.ExpressionAttributeValues {
				assert.Equal(t, tt.want, value.(*types.AttributeValueMemberS).Value)
			}
			client.AssertExpectations(t)
		})
	}
}

func TestDeviceRepository_UpdateStatus_InboundValuesAreNotRewritten(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		deviceID  string
		cityID    string
		operation string
		want      string
	}{
		{"exact activate", "device-123", "city-123", "ACTIVATE", "ON"},
		{"lowercase activate", "device-123", "city-123", "activate", "OFF"},
		{"padded activate", "device-123", "city-123", " Activate ", "OFF"},
		{"padded device id", " dev-1 ", "city-123", "ACTIVATE", "ON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockDynamoDB)
			var captured *dynamodb.UpdateItemInput
			client.On("UpdateItem", ctx, mock.AnythingOfType("*dynamodb.UpdateItemInput")).
				Run(func(args mock.Arguments) {
					captured = args.Get(1).(*dynamodb.UpdateItemInput)
				}).
				Return(&dynamodb.UpdateItemOutput{}, nil)

			key, err := valueobjects.NewDeviceKey(tt.deviceID, tt.cityID)
			require.NoError(t, err)

			err = newTestRepository(client).UpdateStatus(ctx, key, valueobjects.ParseDeviceOperation(tt.operation))

			require.NoError(t, err)
			require.NotNil(t, captured)
			assert.True(t, hasFullKey(captured.Key, tt.deviceID, tt.cityID))
			for _, value := range captured.ExpressionAttributeValues {
				assert.Equal(t, tt.want, value.(*types.AttributeValueMemberS).Value)
			}
		})
	}
}

func TestDeviceRepository_UpdateStatusError(t *testing.T) {
	ctx := context.Background()
	client := new(mockDynamoDB)
	client.On("UpdateItem", ctx, mock.Anything).Return(nil, errors.New("network down"))

	repo := newTestRepository(client)

	err := repo.UpdateStatus(ctx, valueobjects.MustDeviceKey("device-123", "city-123"), valueobjects.DeviceOperationActivate)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
	assert.Contains(t, err.Error(), "network down")
}

func TestDeviceRepository_DeadlineIsTimeout(t *testing.T) {
	ctx := context.Background()
	client := new(mockDynamoDB)
	client.On("GetItem", ctx, mock.Anything).Return(nil, fmt.Errorf("operation error DynamoDB: GetItem: %w", context.DeadlineExceeded))

	repo := newTestRepository(client)

	device, err := repo.FindByID(ctx, valueobjects.MustDeviceKey("device-123", "city-123"))

	assert.Nil(t, device)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeout))
	assert.Equal(t, http.StatusGatewayTimeout, apperrors.HTTPStatus(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMapDevice(t *testing.T) {
	t.Run("empty item is absent", func(t *testing.T) {
		device, err := mapDevice(map[string]types.AttributeValue{})
		assert.NoError(t, err)
		assert.Nil(t, device)
	})

	t.Run("unknown status maps to off", func(t *testing.T) {
		item := fixtures.NewDeviceBuilder().Item()
		item["status"] = &types.AttributeValueMemberS{Value: "BLINKING"}

		device, err := mapDevice(item)

		require.NoError(t, err)
		assert.False(t, device.IsOn())
	})

	t.Run("malformed timestamps become zero", func(t *testing.T) {
		item := fixtures.NewDeviceBuilder().Item()
		item["createdAt"] = &types.AttributeValueMemberS{Value: "yesterday"}

		device, err := mapDevice(item)

		require.NoError(t, err)
		assert.True(t, device.CreatedAt().IsZero())
	})

	t.Run("item without city is rejected", func(t *testing.T) {
		item := fixtures.NewDeviceBuilder().Item()
		delete(item, "cityId")

		device, err := mapDevice(item)

		assert.Error(t, err)
		assert.Nil(t, device)
	})

	t.Run("key is built from both attributes", func(t *testing.T) {
		key := buildKey(valueobjects.MustDeviceKey("d-1", "c-1"))
		assert.Equal(t, "d-1", stringAttr(t, key, "id"))
		assert.Equal(t, "c-1", stringAttr(t, key, "cityId"))
	})
}
