package di

import (
	"city-devices-backend/application/commands/handlers"
	"city-devices-backend/application/ports"
	queryhandlers "city-devices-backend/application/queries/handlers"
	"city-devices-backend/infrastructure/config"
	"city-devices-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config                    *config.Config
	Logger                    *zap.Logger
	LogLevel                  zap.AtomicLevel
	Metrics                   *observability.Collector
	Tracer                    *observability.TracerProvider
	DeviceRepo                ports.DeviceRepository
	EventBus                  ports.EventBus
	GetDeviceHandler          *queryhandlers.GetDeviceHandler
	UpdateDeviceStatusHandler *handlers.UpdateDeviceStatusHandler
}
