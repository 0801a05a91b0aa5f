package di

import (
	"context"
	"fmt"

	"city-devices-backend/application/commands/handlers"
	"city-devices-backend/application/ports"
	queryhandlers "city-devices-backend/application/queries/handlers"
	"city-devices-backend/infrastructure/config"
	"city-devices-backend/infrastructure/messaging/eventbridge"
	"city-devices-backend/infrastructure/persistence"
	"city-devices-backend/infrastructure/persistence/dynamodb"
	"city-devices-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "city-devices"

// ProvideLogLevel creates the adjustable level shared by the logger and the config watcher
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return zap.NewAtomicLevelAt(level), nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", serviceName)), nil
}

// WatchLogLevel watches the config file at path and applies log_level changes to level.
// The caller starts and stops the returned watcher.
func WatchLogLevel(path string, level zap.AtomicLevel, logger *zap.Logger) (*config.Watcher, error) {
	watcher, err := config.NewWatcher(path, logger)
	if err != nil {
		return nil, err
	}

	watcher.OnChange(func(cfg *config.Config) {
		next, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warn("ignoring log level from config file", zap.String("log_level", cfg.LogLevel))
			return
		}
		if next != level.Level() {
			level.SetLevel(next)
			logger.Info("log level changed", zap.String("level", next.String()))
		}
	})

	return watcher, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client. DYNAMODB_ENDPOINT points it at a local table.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics collector, or nil when metrics are disabled
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("city_devices")
}

// ProvideTracer creates the tracer provider and a cleanup that flushes it
func ProvideTracer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.EnableTracing,
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRate:  cfg.TracingSampleRate,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shut down tracer", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideDeviceRepository builds the table repository wrapped in a circuit
// breaker and then instrumentation
func ProvideDeviceRepository(
	client *awsdynamodb.Client,
	cfg *config.Config,
	metrics *observability.Collector,
	tracer *observability.TracerProvider,
	logger *zap.Logger,
) ports.DeviceRepository {
	base := dynamodb.NewDeviceRepository(client, dynamodb.RepositoryConfig{
		TableName:      cfg.DevicesTable,
		ConsistentRead: cfg.ConsistentReads,
	}, logger)

	guarded := persistence.NewCircuitBreakerRepository(base, persistence.CircuitBreakerConfig{
		Name:             cfg.DevicesTable,
		MaxRequests:      cfg.CircuitBreaker.MaxRequests,
		Interval:         cfg.CircuitBreaker.Interval,
		Timeout:          cfg.CircuitBreaker.Timeout,
		FailureThreshold: cfg.CircuitBreaker.FailureRatio,
		MinRequests:      cfg.CircuitBreaker.MinRequests,
	}, metrics, logger)

	return persistence.NewInstrumentedRepository(guarded, cfg.DevicesTable, metrics, tracer)
}

// ProvideEventBus creates an event bus, or nil when publishing is disabled
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	if !cfg.PublishEvents {
		return nil
	}
	return eventbridge.NewEventBridgePublisher(client, cfg.EventBusName, cfg.EventSource, logger)
}

// ProvideGetDeviceHandler creates the device query handler
func ProvideGetDeviceHandler(repo ports.DeviceRepository, logger *zap.Logger) *queryhandlers.GetDeviceHandler {
	return queryhandlers.NewGetDeviceHandler(repo, logger)
}

// ProvideUpdateDeviceStatusHandler creates the status command handler
func ProvideUpdateDeviceStatusHandler(
	repo ports.DeviceRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *handlers.UpdateDeviceStatusHandler {
	return handlers.NewUpdateDeviceStatusHandler(repo, eventBus, logger)
}
