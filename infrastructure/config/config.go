package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// CircuitBreakerConfig holds the table circuit breaker settings
type CircuitBreakerConfig struct {
	MaxRequests  uint32        `yaml:"max_requests" validate:"gte=1"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	FailureRatio float64       `yaml:"failure_ratio" validate:"gt=0,lte=1"`
	MinRequests  uint32        `yaml:"min_requests" validate:"gte=1"`
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address" validate:"required"`
	Environment   string `yaml:"environment" validate:"oneof=development staging production test"`

	// AWS configuration
	AWSRegion        string `yaml:"aws_region" validate:"required"`
	DevicesTable     string `yaml:"devices_table" validate:"required"`
	ConsistentReads  bool   `yaml:"consistent_reads"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint" validate:"omitempty,url"`
	EventBusName     string `yaml:"event_bus_name" validate:"required_if=PublishEvents true"`
	EventSource      string `yaml:"event_source" validate:"required"`
	PublishEvents    bool   `yaml:"publish_events"`

	// Lambda configuration
	IsLambda           bool   `yaml:"-"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableTracing bool `yaml:"enable_tracing"`
	EnableCORS    bool `yaml:"enable_cors"`

	// Tracing
	OTLPEndpoint      string  `yaml:"otlp_endpoint"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate" validate:"gte=0,lte=1"`

	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		ServerAddress: ":8080",
		Environment:   "development",
		AWSRegion:     "us-east-1",
		DevicesTable:  "Devices",
		EventBusName:  "default",
		EventSource:   "city.devices",
		PublishEvents: true,
		LogLevel:      "info",
		EnableCORS:    true,
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:  5,
			Interval:     30 * time.Second,
			Timeout:      60 * time.Second,
			FailureRatio: 0.8,
			MinRequests:  5,
		},
	}
}

// LoadConfig loads configuration. Defaults are overlaid by the YAML file named in
// CONFIG_FILE, if any, and then by environment variables.
func LoadConfig() (*Config, error) {
	return loadFrom(os.Getenv("CONFIG_FILE"))
}

func loadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)

	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
	cfg.DevicesTable = getEnv("DEVICES_TABLE_NAME", cfg.DevicesTable)
	cfg.ConsistentReads = getEnvBool("CONSISTENT_READS", cfg.ConsistentReads)
	cfg.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", cfg.DynamoDBEndpoint)
	cfg.EventBusName = getEnv("EVENT_BUS_NAME", cfg.EventBusName)
	cfg.EventSource = getEnv("EVENT_SOURCE", cfg.EventSource)
	cfg.PublishEvents = getEnvBool("PUBLISH_EVENTS", cfg.PublishEvents)

	cfg.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", "")
	cfg.IsLambda = cfg.LambdaFunctionName != ""

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableTracing = getEnvBool("ENABLE_TRACING", cfg.EnableTracing)
	cfg.EnableCORS = getEnvBool("ENABLE_CORS", cfg.EnableCORS)
	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	cfg.TracingSampleRate = getEnvFloat("TRACING_SAMPLE_RATE", cfg.TracingSampleRate)

	cb := &cfg.CircuitBreaker
	var err error
	if cb.MaxRequests, err = getEnvUint32("CB_MAX_REQUESTS", cb.MaxRequests); err != nil {
		return err
	}
	cb.Interval = getEnvDuration("CB_INTERVAL", cb.Interval)
	cb.Timeout = getEnvDuration("CB_TIMEOUT", cb.Timeout)
	cb.FailureRatio = getEnvFloat("CB_FAILURE_RATIO", cb.FailureRatio)
	if cb.MinRequests, err = getEnvUint32("CB_MIN_REQUESTS", cb.MinRequests); err != nil {
		return err
	}

	return nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			messages := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				messages = append(messages, fmt.Sprintf("%s failed '%s' validation", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
// Unparseable values keep the default.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolVal
}

// getEnvUint32 reads a non-negative count. Negative or malformed values are an error.
func getEnvUint32(key string, defaultValue uint32) (uint32, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid configuration: %s must be a non-negative integer, got %q", key, value)
	}
	return uint32(n), nil
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or whole seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
