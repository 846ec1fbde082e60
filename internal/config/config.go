package config

import (
	"fmt"
	"time"
)

// Store backends
const (
	BackendMemory     = "memory"
	BackendDynamoDB   = "dynamodb"
	BackendPostgres   = "postgres"
	BackendClickHouse = "clickhouse"
	BackendRedis      = "redis"
	BackendSQLite     = "sqlite"
	BackendMinIO      = "minio"
)

// Backends lists every supported store backend
var Backends = []string{
	BackendMemory,
	BackendDynamoDB,
	BackendPostgres,
	BackendClickHouse,
	BackendRedis,
	BackendSQLite,
	BackendMinIO,
}

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	Store          StoreConfig
	Postgres       PostgresConfig
	ClickHouse     ClickHouseConfig
	Redis          RedisConfig
	MinIO          MinIOConfig
	DynamoDB       DynamoDBConfig
	SQLite         SQLiteConfig
	JWT            JWTConfig
	Sentry         SentryConfig
	Log            LogConfig
	CircuitBreaker CircuitBreakerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Env          string        `mapstructure:"env"`
	Version      string        `mapstructure:"version"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BodyLimit    int           `mapstructure:"body_limit"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selects and tunes the table store backend
type StoreConfig struct {
	Backend     string        `mapstructure:"backend"`
	ScanTimeout time.Duration `mapstructure:"scan_timeout"`
	// SeedFile is a YAML seed applied to the store at startup when set
	SeedFile string `mapstructure:"seed_file"`
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// DSN returns the PostgreSQL connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// ClickHouseConfig holds ClickHouse configuration
type ClickHouseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MinIOConfig holds MinIO configuration
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
}

// DynamoDBConfig holds DynamoDB configuration.
// Endpoint is only set for DynamoDB Local or LocalStack.
type DynamoDBConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	TablePrefix     string `mapstructure:"table_prefix"`
}

// SQLiteConfig holds SQLite configuration
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpiryHours int           `mapstructure:"expiry_hours"`
	Issuer      string        `mapstructure:"issuer"`
	Expiry      time.Duration `mapstructure:"-"`
}

// SentryConfig holds Sentry configuration. An empty DSN disables Sentry.
type SentryConfig struct {
	DSN              string  `mapstructure:"dsn"`
	Environment      string  `mapstructure:"environment"`
	Release          string  `mapstructure:"release"`
	SampleRate       float64 `mapstructure:"sample_rate"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate"`
}

// Enabled reports whether Sentry reporting is configured
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CircuitBreakerConfig holds the thresholds shared by every table breaker
type CircuitBreakerConfig struct {
	MaxFailures         int           `mapstructure:"max_failures"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxHalfOpenRequests int           `mapstructure:"max_half_open_requests"`
}

// IsDevelopment returns true if running in development mode
func (c Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}
