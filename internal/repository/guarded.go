package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/pkg/circuitbreaker"
	"github.com/reflectionapp/reflection/api/internal/pkg/metrics"
)

// GuardedStore decorates a backend with a circuit breaker per table and
// Prometheus query metrics
type GuardedStore struct {
	backend     string
	store       Store
	breakers    *circuitbreaker.Registry
	scanTimeout time.Duration
	logger      *zap.Logger
}

// NewGuardedStore wraps store. A zero scanTimeout leaves the caller's deadline untouched.
func NewGuardedStore(backend string, store Store, breakers *circuitbreaker.Registry, scanTimeout time.Duration, logger *zap.Logger) *GuardedStore {
	return &GuardedStore{
		backend:     backend,
		store:       store,
		breakers:    breakers,
		scanTimeout: scanTimeout,
		logger:      logger,
	}
}

// BreakerName returns the circuit breaker name used for a table
func BreakerName(table domain.Table) string {
	return "store:" + table.Name
}

// ScanPartition implements Store
func (g *GuardedStore) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	if g.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.scanTimeout)
		defer cancel()
	}

	start := time.Now()
	cb := g.breakers.Get(BreakerName(table))
	entities, err := circuitbreaker.ExecuteWithResult(ctx, cb, func(ctx context.Context) ([]domain.TableEntity, error) {
		return g.store.ScanPartition(ctx, table)
	})
	metrics.RecordDBQuery(g.backend, "scan_partition", time.Since(start))

	if err != nil {
		metrics.RecordDBError(g.backend, "scan_partition")
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			g.logger.Warn("partition scan rejected", zap.Stringer("table", table), zap.Error(err))
		}
		return nil, fmt.Errorf("scan %s on %s: %w", table, g.backend, err)
	}

	metrics.RecordPartitionRows(g.backend, table.Name, len(entities))
	return entities, nil
}

// PutEntity implements Store
func (g *GuardedStore) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	start := time.Now()
	err := g.store.PutEntity(ctx, table, entity)
	metrics.RecordDBQuery(g.backend, "put_entity", time.Since(start))
	if err != nil {
		metrics.RecordDBError(g.backend, "put_entity")
		return fmt.Errorf("put %s/%s on %s: %w", table, entity.RowKey, g.backend, err)
	}
	return nil
}

// Ping implements Store
func (g *GuardedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := g.store.Ping(ctx)
	metrics.RecordDBQuery(g.backend, "ping", time.Since(start))
	if err != nil {
		metrics.RecordDBError(g.backend, "ping")
		return fmt.Errorf("ping %s: %w", g.backend, err)
	}
	return nil
}

// Close implements Store
func (g *GuardedStore) Close() error {
	return g.store.Close()
}

// Backend returns the wrapped backend's name
func (g *GuardedStore) Backend() string {
	return g.backend
}

// Breakers returns a snapshot of every table breaker
func (g *GuardedStore) Breakers() []circuitbreaker.Snapshot {
	return g.breakers.Stats()
}
