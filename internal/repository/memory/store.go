// Package memory provides an in-process table store.
package memory

import (
	"context"
	"sync"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

// Store keeps every partition in a map guarded by a RWMutex
type Store struct {
	mu         sync.RWMutex
	partitions map[domain.Table]map[string]domain.TableEntity
}

// New creates an empty store
func New() *Store {
	return &Store{
		partitions: make(map[domain.Table]map[string]domain.TableEntity),
	}
}

// ScanPartition returns copies of the partition's rows ordered by RowKey
func (s *Store) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.partitions[table]
	entities := make([]domain.TableEntity, 0, len(rows))
	for _, e := range rows {
		e.Properties = append([]byte(nil), e.Properties...)
		entities = append(entities, e)
	}
	domain.SortEntities(entities)
	return entities, nil
}

// PutEntity upserts a row
func (s *Store) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entity.PartitionKey = table.PartitionKey
	entity.Properties = append([]byte(nil), entity.Properties...)

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.partitions[table]
	if !ok {
		rows = make(map[string]domain.TableEntity)
		s.partitions[table] = rows
	}
	rows[entity.RowKey] = entity
	return nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}
