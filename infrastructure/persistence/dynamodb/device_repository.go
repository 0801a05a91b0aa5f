package dynamodb

import (
	"context"
	"errors"

	"city-devices-backend/application/ports"
	"city-devices-backend/domain/core/entities"
	"city-devices-backend/domain/core/valueobjects"
	apperrors "city-devices-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// RepositoryConfig configures the device repository
type RepositoryConfig struct {
	TableName      string
	ConsistentRead bool
}

// DeviceRepository reads and writes device rows by their composite key.
// Every request carries both key attributes; there are no queries or scans.
type DeviceRepository struct {
	client DynamoDBAPI
	config RepositoryConfig
	logger *zap.Logger
}

var _ ports.DeviceRepository = (*DeviceRepository)(nil)

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(client DynamoDBAPI, config RepositoryConfig, logger *zap.Logger) *DeviceRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceRepository{
		client: client,
		config: config,
		logger: logger,
	}
}

// TableName returns the table the repository addresses
func (r *DeviceRepository) TableName() string {
	return r.config.TableName
}

// FindByID looks up a device. A missing row yields (nil, nil).
func (r *DeviceRepository) FindByID(ctx context.Context, key valueobjects.DeviceKey) (*entities.Device, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(r.config.TableName),
		Key:            buildKey(key),
		ConsistentRead: aws.Bool(r.config.ConsistentRead),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		r.logger.Error("failed to get device",
			zap.String("deviceID", key.DeviceID()),
			zap.String("cityID", key.CityID()),
			zap.Error(err),
		)
		return nil, databaseError("GetItem", err)
	}

	device, err := mapDevice(result.Item)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to map device").WithCause(err)
	}

	if device == nil {
		r.logger.Debug("device not found",
			zap.String("deviceID", key.DeviceID()),
			zap.String("cityID", key.CityID()),
		)
	}

	return device, nil
}

// UpdateStatus writes the status derived from operation. The write is
// unconditional; it does not check that the row exists.
func (r *DeviceRepository) UpdateStatus(ctx context.Context, key valueobjects.DeviceKey, operation valueobjects.DeviceOperation) error {
	status := valueobjects.StatusFor(operation)

	update := expression.Set(expression.Name(attrStatus), expression.Value(status.String()))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build update expression").WithCause(err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.config.TableName),
		Key:                       buildKey(key),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	if _, err := r.client.UpdateItem(ctx, input); err != nil {
		r.logger.Error("failed to update device status",
			zap.String("deviceID", key.DeviceID()),
			zap.String("cityID", key.CityID()),
			zap.String("status", status.String()),
			zap.Error(err),
		)
		return databaseError("UpdateItem", err)
	}

	r.logger.Debug("device status updated",
		zap.String("deviceID", key.DeviceID()),
		zap.String("cityID", key.CityID()),
		zap.String("operation", operation.String()),
		zap.String("status", status.String()),
	)

	return nil
}

// databaseError wraps an SDK failure, tagging it with the service error code when there is one.
// An expired context is reported as a timeout.
func databaseError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(operation).WithCause(err)
	}

	appErr := apperrors.NewDatabaseError(operation, err)

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		appErr = appErr.WithCode(apiErr.ErrorCode())
	}

	return appErr
}
