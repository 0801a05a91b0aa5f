package persistence

import (
	"context"
	"errors"
	"time"

	"city-devices-backend/application/ports"
	"city-devices-backend/domain/core/entities"
	"city-devices-backend/domain/core/valueobjects"
	apperrors "city-devices-backend/pkg/errors"
	"city-devices-backend/pkg/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// CircuitBreakerConfig holds configuration for the repository circuit breaker
type CircuitBreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Failure ratio at which the breaker trips once MinRequests is reached
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultCircuitBreakerConfig returns a default configuration for circuit breaker
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreakerRepository guards a device repository with a circuit breaker.
// While the circuit is open calls fail fast with an UNAVAILABLE error.
type CircuitBreakerRepository struct {
	next    ports.DeviceRepository
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ ports.DeviceRepository = (*CircuitBreakerRepository)(nil)

// NewCircuitBreakerRepository wraps next. metrics may be nil.
func NewCircuitBreakerRepository(
	next ports.DeviceRepository,
	config CircuitBreakerConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CircuitBreakerRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics.SetBreakerState(config.Name, float64(gobreaker.StateClosed))

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetBreakerState(name, float64(to))
		},
		IsSuccessful: isBreakerSuccess,
	})

	return &CircuitBreakerRepository{
		next:    next,
		breaker: breaker,
		logger:  logger,
	}
}

// State returns the current breaker state
func (r *CircuitBreakerRepository) State() gobreaker.State {
	return r.breaker.State()
}

// FindByID delegates through the breaker
func (r *CircuitBreakerRepository) FindByID(ctx context.Context, key valueobjects.DeviceKey) (*entities.Device, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.next.FindByID(ctx, key)
	})
	if err != nil {
		return nil, r.translate(err)
	}

	device, _ := result.(*entities.Device)
	return device, nil
}

// UpdateStatus delegates through the breaker
func (r *CircuitBreakerRepository) UpdateStatus(ctx context.Context, key valueobjects.DeviceKey, operation valueobjects.DeviceOperation) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.next.UpdateStatus(ctx, key, operation)
	})
	if err != nil {
		return r.translate(err)
	}
	return nil
}

func (r *CircuitBreakerRepository) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		r.logger.Warn("circuit breaker rejected call",
			zap.String("name", r.breaker.Name()),
			zap.Error(err),
		)
		return apperrors.NewUnavailableError(r.breaker.Name()).WithCause(err)
	}
	return err
}

// isBreakerSuccess counts caller-side failures as successes so they never trip the breaker
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if apperrors.IsClientError(err) {
		return true
	}
	return errors.Is(err, context.Canceled)
}
