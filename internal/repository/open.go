package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/config"
	"github.com/reflectionapp/reflection/api/internal/pkg/circuitbreaker"
	"github.com/reflectionapp/reflection/api/internal/pkg/database"
	"github.com/reflectionapp/reflection/api/internal/pkg/metrics"
	"github.com/reflectionapp/reflection/api/internal/repository/clickhouse"
	"github.com/reflectionapp/reflection/api/internal/repository/dynamodb"
	"github.com/reflectionapp/reflection/api/internal/repository/memory"
	"github.com/reflectionapp/reflection/api/internal/repository/minio"
	"github.com/reflectionapp/reflection/api/internal/repository/postgres"
	"github.com/reflectionapp/reflection/api/internal/repository/redis"
	"github.com/reflectionapp/reflection/api/internal/repository/sqlite"
)

// Open connects to the backend selected by cfg.Store.Backend
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.New(), nil

	case config.BackendDynamoDB:
		client, err := database.NewDynamoDB(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		return dynamodb.NewTableStore(client, cfg.DynamoDB.TablePrefix), nil

	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		store, err := postgres.NewTableStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case config.BackendClickHouse:
		db, err := database.NewClickHouse(ctx, cfg.ClickHouse)
		if err != nil {
			return nil, err
		}
		store, err := clickhouse.NewTableStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return store, nil

	case config.BackendRedis:
		client, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redis.NewTableStore(client, cfg.Redis.KeyPrefix), nil

	case config.BackendSQLite:
		db, err := database.NewSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, err
		}
		store, err := sqlite.NewTableStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return store, nil

	case config.BackendMinIO:
		client, err := database.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return minio.NewTableStore(client, cfg.MinIO.Bucket), nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// OpenGuarded opens the configured backend behind per-table circuit breakers.
// Breaker transitions are exported as metrics and logged.
func OpenGuarded(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*GuardedStore, error) {
	store, err := Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	breakers := circuitbreaker.NewRegistry(circuitbreaker.Config{
		MaxFailures:         cfg.CircuitBreaker.MaxFailures,
		Timeout:             cfg.CircuitBreaker.Timeout,
		MaxHalfOpenRequests: cfg.CircuitBreaker.MaxHalfOpenRequests,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.RecordBreakerState(name, int(to))
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return NewGuardedStore(cfg.Store.Backend, store, breakers, cfg.Store.ScanTimeout, logger), nil
}
