// Command lambda is the device status function. It accepts EventBridge
// events and, when routed through API Gateway, HTTP API requests.
package main

import (
	"context"
	"log"
	"time"

	"city-devices-backend/infrastructure/config"
	"city-devices-backend/infrastructure/di"
	"city-devices-backend/interfaces/http/rest"
	lambdahandler "city-devices-backend/interfaces/lambda"
	"city-devices-backend/pkg/observability"

	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"
)

// Created once per cold start and reused across invocations
var handler lambda.Handler

// flushingHandler exports buffered spans before the environment is frozen
type flushingHandler struct {
	next   lambda.Handler
	tracer *observability.TracerProvider
	logger *zap.Logger
}

func (h flushingHandler) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	out, err := h.next.Invoke(ctx, payload)
	if flushErr := h.tracer.ForceFlush(ctx); flushErr != nil {
		h.logger.Warn("failed to flush spans", zap.Error(flushErr))
	}
	return out, err
}

func init() {
	coldStartTime := time.Now()

	// Bound initialization so a hung dependency cannot stall the cold start
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, _, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(
		container.GetDeviceHandler,
		container.UpdateDeviceStatusHandler,
		container.Metrics,
		container.Logger,
		rest.RouterOptions{EnableCORS: cfg.EnableCORS},
	)

	dispatcher := lambdahandler.NewDispatcher(
		lambdahandler.NewEventHandler(container.UpdateDeviceStatusHandler, container.Logger),
		chiadapter.NewV2(router.Setup()),
	)
	handler = flushingHandler{
		next:   dispatcher,
		tracer: container.Tracer,
		logger: container.Logger,
	}

	container.Logger.Info("Lambda cold start completed",
		zap.Duration("duration", time.Since(coldStartTime)),
		zap.String("function", cfg.LambdaFunctionName),
		zap.String("table", cfg.DevicesTable),
	)
}

func main() {
	lambda.StartHandler(handler)
}
