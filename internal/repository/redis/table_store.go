// Package redis stores each partition as a Redis hash keyed by row key.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

// envelope is the hash field value
type envelope struct {
	Timestamp  time.Time       `json:"timestamp"`
	Properties json.RawMessage `json:"properties"`
}

// TableStore serves partition scans from Redis hashes named {prefix}:{table}:{partition}
type TableStore struct {
	client *redis.Client
	prefix string
}

// NewTableStore creates a store on an existing client
func NewTableStore(client *redis.Client, prefix string) *TableStore {
	return &TableStore{client: client, prefix: prefix}
}

func (s *TableStore) key(table domain.Table) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, table.Name, table.PartitionKey)
}

// ScanPartition reads the whole hash and orders the rows by row key
func (s *TableStore) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	fields, err := s.client.HGetAll(ctx, s.key(table)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read partition hash: %w", err)
	}

	entities := make([]domain.TableEntity, 0, len(fields))
	for rowKey, raw := range fields {
		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			return nil, fmt.Errorf("failed to decode row %s: %w", rowKey, err)
		}
		entities = append(entities, domain.TableEntity{
			PartitionKey: table.PartitionKey,
			RowKey:       rowKey,
			Timestamp:    env.Timestamp,
			Properties:   env.Properties,
		})
	}

	domain.SortEntities(entities)
	return entities, nil
}

// PutEntity sets the row's hash field
func (s *TableStore) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	ts := entity.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	data, err := json.Marshal(envelope{Timestamp: ts, Properties: entity.Properties})
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	if err := s.client.HSet(ctx, s.key(table), entity.RowKey, data).Err(); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Ping checks the connection
func (s *TableStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client
func (s *TableStore) Close() error {
	return s.client.Close()
}
