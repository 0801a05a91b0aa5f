// Command api serves the device HTTP API locally, outside Lambda.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"city-devices-backend/infrastructure/config"
	"city-devices-backend/infrastructure/di"
	"city-devices-backend/interfaces/http/rest"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	// Hot-reload log_level from the config file, if there is one
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		watcher, err := di.WatchLogLevel(path, container.LogLevel, container.Logger)
		if err != nil {
			container.Logger.Warn("Config file watcher disabled", zap.String("path", path), zap.Error(err))
		} else {
			watcher.Start()
			defer watcher.Stop()
		}
	}

	router := rest.NewRouter(
		container.GetDeviceHandler,
		container.UpdateDeviceStatusHandler,
		container.Metrics,
		container.Logger,
		rest.RouterOptions{EnableCORS: cfg.EnableCORS},
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("table", cfg.DevicesTable),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
