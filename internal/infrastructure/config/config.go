package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	pkgkafka "github.com/bibbank/bib/services/propensity-service/pkg/kafka"
)

// Config holds all configuration for the propensity service.
type Config struct {
	Telemetry   TelemetryConfig
	Auth        AuthConfig
	TLS         TLSConfig
	DB          DBConfig
	Kafka       KafkaConfig
	ModelPath   string
	GRPCPort    string
	HTTPPort    string
	Environment string
	LogLevel    string
	LogFormat   string
	SinkTimeout time.Duration
	Reflection  bool
}

// DBConfig configures the optional prediction audit store. An empty URL
// disables auditing.
type DBConfig struct {
	URL           string
	MigrationsDir string
	MaxConns      int32
	MinConns      int32
}

// KafkaConfig configures prediction event publishing. No brokers means events
// are only logged.
type KafkaConfig struct {
	Topic   string
	Brokers []string
}

// TelemetryConfig configures tracing export. An empty endpoint disables it.
type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

// AuthConfig configures bearer token validation. Authentication is enabled
// when either a secret or a public key file is set.
type AuthConfig struct {
	Secret        string
	PublicKeyFile string
	Issuer        string
}

// Enabled reports whether requests must carry a token.
func (a AuthConfig) Enabled() bool {
	return a.Secret != "" || a.PublicKeyFile != ""
}

// TLSConfig points at the gRPC server certificate.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether both certificate and key are configured.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8000"),
		GRPCPort:    getEnv("GRPC_PORT", "9000"),
		ModelPath:   getEnv("MODEL_PATH", "models/ranforclas_model.json"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		SinkTimeout: getEnvDuration("SINK_TIMEOUT", 2*time.Second),
		Reflection:  getEnv("GRPC_REFLECTION", "") == "true",
		DB: DBConfig{
			URL:           getEnv("DATABASE_URL", ""),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "internal/infrastructure/postgres/migrations"),
			MaxConns:      int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:      int32(getEnvInt("DB_MIN_CONNS", 1)),
		},
		Kafka: KafkaConfig{
			Brokers: pkgkafka.ParseBrokers(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "propensity.events"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  "propensity-service",
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Auth: AuthConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:        getEnv("JWT_ISSUER", "bib"),
		},
		TLS: TLSConfig{
			CertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		},
	}
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
