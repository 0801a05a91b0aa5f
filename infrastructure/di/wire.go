//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"city-devices-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideMetrics,
	ProvideTracer,
	ProvideDeviceRepository,
	ProvideEventBus,
	ProvideGetDeviceHandler,
	ProvideUpdateDeviceStatusHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
