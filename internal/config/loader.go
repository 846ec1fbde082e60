package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// Load loads configuration from environment variables and an optional config file.
// When configFile is empty the usual search paths are tried and a missing file is ignored.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/reflection")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config

	// Server
	cfg.Server.Host = v.GetString("server_host")
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.Env = v.GetString("server_env")
	cfg.Server.Version = v.GetString("server_version")
	cfg.Server.ReadTimeout = v.GetDuration("server_read_timeout")
	cfg.Server.WriteTimeout = v.GetDuration("server_write_timeout")
	cfg.Server.BodyLimit = v.GetInt("server_body_limit")
	cfg.Server.CORSOrigins = v.GetStringSlice("server_cors_origins")

	// Store
	cfg.Store.Backend = strings.ToLower(v.GetString("store_backend"))
	cfg.Store.ScanTimeout = v.GetDuration("store_scan_timeout")
	cfg.Store.SeedFile = v.GetString("store_seed_file")

	// PostgreSQL
	cfg.Postgres.Host = v.GetString("postgres_host")
	cfg.Postgres.Port = v.GetInt("postgres_port")
	cfg.Postgres.User = v.GetString("postgres_user")
	cfg.Postgres.Password = v.GetString("postgres_password")
	cfg.Postgres.Database = v.GetString("postgres_db")
	cfg.Postgres.SSLMode = v.GetString("postgres_ssl_mode")
	cfg.Postgres.MaxConns = v.GetInt32("postgres_max_conns")
	cfg.Postgres.MinConns = v.GetInt32("postgres_min_conns")

	// ClickHouse
	cfg.ClickHouse.Host = v.GetString("clickhouse_host")
	cfg.ClickHouse.Port = v.GetInt("clickhouse_port")
	cfg.ClickHouse.User = v.GetString("clickhouse_user")
	cfg.ClickHouse.Password = v.GetString("clickhouse_password")
	cfg.ClickHouse.Database = v.GetString("clickhouse_db")

	// Redis
	cfg.Redis.Host = v.GetString("redis_host")
	cfg.Redis.Port = v.GetInt("redis_port")
	cfg.Redis.Password = v.GetString("redis_password")
	cfg.Redis.DB = v.GetInt("redis_db")
	cfg.Redis.KeyPrefix = v.GetString("redis_key_prefix")

	// MinIO
	cfg.MinIO.Endpoint = v.GetString("minio_endpoint")
	cfg.MinIO.AccessKey = v.GetString("minio_access_key")
	cfg.MinIO.SecretKey = v.GetString("minio_secret_key")
	cfg.MinIO.UseSSL = v.GetBool("minio_use_ssl")
	cfg.MinIO.Bucket = v.GetString("minio_bucket")

	// DynamoDB
	cfg.DynamoDB.Region = v.GetString("dynamodb_region")
	cfg.DynamoDB.Endpoint = v.GetString("dynamodb_endpoint")
	cfg.DynamoDB.AccessKeyID = v.GetString("dynamodb_access_key_id")
	cfg.DynamoDB.SecretAccessKey = v.GetString("dynamodb_secret_access_key")
	cfg.DynamoDB.TablePrefix = v.GetString("dynamodb_table_prefix")

	// SQLite
	cfg.SQLite.Path = v.GetString("sqlite_path")

	// JWT
	cfg.JWT.Secret = v.GetString("jwt_secret")
	cfg.JWT.ExpiryHours = v.GetInt("jwt_expiry_hours")
	cfg.JWT.Issuer = v.GetString("jwt_issuer")
	cfg.JWT.Expiry = time.Duration(cfg.JWT.ExpiryHours) * time.Hour

	// Sentry
	cfg.Sentry.DSN = v.GetString("sentry_dsn")
	cfg.Sentry.Environment = v.GetString("sentry_environment")
	if cfg.Sentry.Environment == "" {
		cfg.Sentry.Environment = cfg.Server.Env
	}
	cfg.Sentry.Release = v.GetString("sentry_release")
	cfg.Sentry.SampleRate = v.GetFloat64("sentry_sample_rate")
	cfg.Sentry.TracesSampleRate = v.GetFloat64("sentry_traces_sample_rate")

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")

	// Circuit breaker
	cfg.CircuitBreaker.MaxFailures = v.GetInt("circuit_breaker_max_failures")
	cfg.CircuitBreaker.Timeout = v.GetDuration("circuit_breaker_timeout")
	cfg.CircuitBreaker.MaxHalfOpenRequests = v.GetInt("circuit_breaker_max_half_open_requests")

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8080)
	v.SetDefault("server_env", "development")
	v.SetDefault("server_version", "dev")
	v.SetDefault("server_read_timeout", 30*time.Second)
	v.SetDefault("server_write_timeout", 30*time.Second)
	v.SetDefault("server_body_limit", 1*1024*1024)
	v.SetDefault("server_cors_origins", []string{"*"})

	// Store defaults
	v.SetDefault("store_backend", BackendMemory)
	v.SetDefault("store_scan_timeout", 10*time.Second)
	v.SetDefault("store_seed_file", "")

	// PostgreSQL defaults
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "reflection")
	v.SetDefault("postgres_password", "reflection")
	v.SetDefault("postgres_db", "reflection")
	v.SetDefault("postgres_ssl_mode", "disable")
	v.SetDefault("postgres_max_conns", 10)
	v.SetDefault("postgres_min_conns", 2)

	// ClickHouse defaults
	v.SetDefault("clickhouse_host", "localhost")
	v.SetDefault("clickhouse_port", 9000)
	v.SetDefault("clickhouse_user", "reflection")
	v.SetDefault("clickhouse_password", "reflection")
	v.SetDefault("clickhouse_db", "reflection")

	// Redis defaults
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_key_prefix", "tables")

	// MinIO defaults
	v.SetDefault("minio_endpoint", "localhost:9000")
	v.SetDefault("minio_access_key", "reflection")
	v.SetDefault("minio_secret_key", "reflection123")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_bucket", "reflection-tables")

	// DynamoDB defaults
	v.SetDefault("dynamodb_region", "us-east-1")
	v.SetDefault("dynamodb_endpoint", "")
	v.SetDefault("dynamodb_table_prefix", "")

	// SQLite defaults
	v.SetDefault("sqlite_path", "reflection.db")

	// JWT defaults
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_expiry_hours", 24)
	v.SetDefault("jwt_issuer", "reflection")

	// Sentry defaults
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("sentry_sample_rate", 1.0)
	v.SetDefault("sentry_traces_sample_rate", 0.1)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// Circuit breaker defaults
	v.SetDefault("circuit_breaker_max_failures", 5)
	v.SetDefault("circuit_breaker_timeout", 30*time.Second)
	v.SetDefault("circuit_breaker_max_half_open_requests", 1)
}

func validate(cfg *Config) error {
	if !slices.Contains(Backends, cfg.Store.Backend) {
		return fmt.Errorf("unknown store backend %q (expected one of %s)",
			cfg.Store.Backend, strings.Join(Backends, ", "))
	}
	if cfg.JWT.Secret == defaultJWTSecret && cfg.IsProduction() {
		return fmt.Errorf("JWT secret must be changed in production")
	}
	if cfg.Store.Backend == BackendMinIO && cfg.MinIO.Bucket == "" {
		return fmt.Errorf("minio_bucket is required for the minio backend")
	}
	if cfg.Store.Backend == BackendSQLite && cfg.SQLite.Path == "" {
		return fmt.Errorf("sqlite_path is required for the sqlite backend")
	}
	return nil
}
