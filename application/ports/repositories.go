package ports

import (
	"context"

	"city-devices-backend/domain/core/entities"
	"city-devices-backend/domain/core/valueobjects"
	"city-devices-backend/domain/events"
)

// DeviceRepository defines the interface for device persistence.
// Every call addresses exactly one row through the full composite key.
type DeviceRepository interface {
	// FindByID looks up a device by its composite key.
	// A missing row yields (nil, nil); only transport failures are errors.
	FindByID(ctx context.Context, key valueobjects.DeviceKey) (*entities.Device, error)

	// UpdateStatus writes the status the operation resolves to.
	// The write is unconditional: no existence check, no version check.
	UpdateStatus(ctx context.Context, key valueobjects.DeviceKey, operation valueobjects.DeviceOperation) error
}

// EventBus publishes domain events to downstream consumers
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
