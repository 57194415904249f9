package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the churn service.
type Config struct {
	HTTPPort           string
	GRPCPort           string
	ModelsDir          string
	KafkaTopic         string
	OTLPEndpoint       string
	Environment        string
	LogLevel           string
	LogFormat          string
	GRPCTLSCertFile    string
	GRPCTLSKeyFile     string
	KafkaCAFile        string
	KafkaSASLMechanism string
	KafkaSASLUsername  string
	KafkaSASLPassword  string
	KafkaBrokers       []string
	CORSAllowedOrigins []string
	RandomSeed         uint64
	TestFraction       float64
	BackgroundRows     int
	ForestTrees        int
	ForestMaxDepth     int
	MaxUploadMB        int64
	TrainRateLimit     int
	GRPCReflection     bool
	KafkaTLS           bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "5000"),
		GRPCPort:           getEnv("GRPC_PORT", "5001"),
		ModelsDir:          getEnv("MODELS_DIR", "./models"),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "churn.model.events"),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		GRPCTLSCertFile:    getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKeyFile:     getEnv("GRPC_TLS_KEY_FILE", ""),
		KafkaCAFile:        getEnv("KAFKA_CA_FILE", ""),
		KafkaSASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
		KafkaSASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
		KafkaSASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		KafkaBrokers:       getEnvList("KAFKA_BROKERS", nil),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	var err error
	if cfg.RandomSeed, err = getEnvUint("CHURN_RANDOM_SEED", 42); err != nil {
		return nil, err
	}
	if cfg.TestFraction, err = getEnvFloat("CHURN_TEST_FRACTION", 0.2); err != nil {
		return nil, err
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return nil, fmt.Errorf("CHURN_TEST_FRACTION must be in (0, 1), got %v", cfg.TestFraction)
	}
	if cfg.BackgroundRows, err = getEnvInt("CHURN_BACKGROUND_ROWS", 100); err != nil {
		return nil, err
	}
	if cfg.ForestTrees, err = getEnvInt("FOREST_TREES", 100); err != nil {
		return nil, err
	}
	if cfg.ForestMaxDepth, err = getEnvInt("FOREST_MAX_DEPTH", 0); err != nil {
		return nil, err
	}
	maxUpload, err := getEnvInt("MAX_UPLOAD_MB", 64)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadMB = int64(maxUpload)
	if cfg.TrainRateLimit, err = getEnvInt("TRAIN_RATE_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.GRPCReflection, err = getEnvBool("GRPC_REFLECTION", false); err != nil {
		return nil, err
	}
	if cfg.KafkaTLS, err = getEnvBool("KAFKA_TLS", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// MaxUploadBytes returns the multipart upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// KafkaEnabled reports whether events go to Kafka instead of the log.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// TLSEnabled reports whether both gRPC TLS files are configured.
func (c *Config) TLSEnabled() bool {
	return c.GRPCTLSCertFile != "" && c.GRPCTLSKeyFile != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func getEnvUint(key string, defaultValue uint64) (uint64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
