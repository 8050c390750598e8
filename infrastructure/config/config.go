package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageDynamoDB = "dynamodb"
	StorageBadger   = "badger"
)

// Metrics backends
const (
	MetricsCloudWatch = "cloudwatch"
	MetricsPrometheus = "prometheus"
	MetricsNone       = "none"
)

// MissingEnvironmentVariableError is returned when a required setting has no value
type MissingEnvironmentVariableError struct {
	Name string
}

func (e *MissingEnvironmentVariableError) Error() string {
	return fmt.Sprintf("environment variable %q is missing", e.Name)
}

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`
	ServiceName   string `yaml:"service_name"`

	// Storage configuration
	TableName           string `yaml:"table_name"`
	IndexName           string `yaml:"index_name"`
	StorageBackend      string `yaml:"storage_backend"`
	BadgerPath          string `yaml:"badger_path"`
	DynamoDBEndpoint    string `yaml:"dynamodb_endpoint"`
	DynamoDBMaxAttempts int    `yaml:"dynamodb_max_attempts"`

	// AWS configuration
	AWSRegion    string `yaml:"aws_region"`
	AWSAccountID string `yaml:"aws_account_id"`
	EventBusName string `yaml:"event_bus_name"`

	// Lambda configuration
	IsLambda           bool   `yaml:"-"`
	LambdaFunctionName string `yaml:"-"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Observability
	MetricsBackend   string `yaml:"metrics_backend"`
	MetricsNamespace string `yaml:"metrics_namespace"`
	EnableTracing    bool   `yaml:"enable_tracing"`

	// Features
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	EnableCORS bool          `yaml:"enable_cors"`
}

// defaults returns the configuration used before any file or environment is applied
func defaults() *Config {
	return &Config{
		ServerAddress:       ":8080",
		Environment:         "development",
		ServiceName:         "productcatalog",
		StorageBackend:      StorageDynamoDB,
		DynamoDBMaxAttempts: 3,
		AWSRegion:           "us-east-1",
		LogLevel:            "info",
		MetricsBackend:      MetricsNone,
		MetricsNamespace:    "ProductCatalog",
		CacheTTL:            5 * time.Minute,
		EnableCORS:          true,
	}
}

// LoadConfig loads configuration from an optional YAML file named by CONFIG_FILE,
// then from environment variables, which take precedence.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)

	c.TableName = getEnv("TABLE_NAME", c.TableName)
	c.IndexName = getEnv("INDEX_NAME", c.IndexName)
	c.StorageBackend = strings.ToLower(getEnv("STORAGE_BACKEND", c.StorageBackend))
	c.BadgerPath = getEnv("BADGER_PATH", c.BadgerPath)
	c.DynamoDBEndpoint = getEnv("DYNAMODB_ENDPOINT", c.DynamoDBEndpoint)
	c.DynamoDBMaxAttempts = getEnvInt("DYNAMODB_MAX_ATTEMPTS", c.DynamoDBMaxAttempts)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.AWSAccountID = getEnv("AWS_ACCOUNT_ID", c.AWSAccountID)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", "")
	c.IsLambda = c.LambdaFunctionName != ""

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.MetricsBackend = strings.ToLower(getEnv("METRICS_BACKEND", c.MetricsBackend))
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)

	c.CacheTTL = getEnvDuration("CACHE_TTL", c.CacheTTL)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.TableName == "" {
		return &MissingEnvironmentVariableError{Name: "TABLE_NAME"}
	}
	if c.IndexName == "" {
		return &MissingEnvironmentVariableError{Name: "INDEX_NAME"}
	}

	switch c.StorageBackend {
	case StorageDynamoDB, StorageBadger:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.MetricsBackend {
	case MetricsCloudWatch, MetricsPrometheus, MetricsNone:
	default:
		return fmt.Errorf("unsupported METRICS_BACKEND %q", c.MetricsBackend)
	}

	if c.DynamoDBMaxAttempts < 1 {
		return fmt.Errorf("DYNAMODB_MAX_ATTEMPTS must be at least 1, got %d", c.DynamoDBMaxAttempts)
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

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable such as "30s" with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
