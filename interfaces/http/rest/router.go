package rest

import (
	"net/http"

	"city-devices-backend/interfaces/http/rest/handlers"
	"city-devices-backend/interfaces/http/rest/middleware"
	"city-devices-backend/pkg/api"
	"city-devices-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterOptions toggles optional router features
type RouterOptions struct {
	EnableCORS     bool
	AllowedOrigins []string
}

// Router creates and configures the HTTP router
type Router struct {
	queryHandler  handlers.DeviceQueryHandler
	statusHandler handlers.DeviceStatusHandler
	metrics       *observability.Collector
	logger        *zap.Logger
	options       RouterOptions
}

// NewRouter creates a new router instance. metrics may be nil.
func NewRouter(
	queryHandler handlers.DeviceQueryHandler,
	statusHandler handlers.DeviceStatusHandler,
	metrics *observability.Collector,
	logger *zap.Logger,
	options RouterOptions,
) *Router {
	if len(options.AllowedOrigins) == 0 {
		options.AllowedOrigins = []string{"*"}
	}
	return &Router{
		queryHandler:  queryHandler,
		statusHandler: statusHandler,
		metrics:       metrics,
		logger:        logger,
		options:       options,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.options.AllowedOrigins,
			AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		deviceHandler := handlers.NewDeviceHandler(rt.queryHandler, rt.statusHandler, rt.logger)
		r.Route("/cities/{cityID}/devices/{deviceID}", func(r chi.Router) {
			r.Get("/", deviceHandler.GetDevice)
			r.Put("/status", deviceHandler.UpdateStatus)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	_ = api.Success(w, http.StatusOK, api.HealthResponse{Status: "healthy"})
}
