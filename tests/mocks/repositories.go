// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"city-devices-backend/domain/core/entities"
	"city-devices-backend/domain/core/valueobjects"
	"city-devices-backend/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockDeviceRepository is a mock implementation of ports.DeviceRepository
type MockDeviceRepository struct {
	mock.Mock
}

func (m *MockDeviceRepository) FindByID(ctx context.Context, key valueobjects.DeviceKey) (*entities.Device, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Device), args.Error(1)
}

func (m *MockDeviceRepository) UpdateStatus(ctx context.Context, key valueobjects.DeviceKey, operation valueobjects.DeviceOperation) error {
	args := m.Called(ctx, key, operation)
	return args.Error(0)
}

// MockEventBus is a mock implementation of ports.EventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventBus) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	args := m.Called(ctx, domainEvents)
	return args.Error(0)
}
