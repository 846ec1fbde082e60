package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/pkg/database"
)

const schema = `
	CREATE TABLE IF NOT EXISTS table_entities (
		table_name    TEXT        NOT NULL,
		partition_key TEXT        NOT NULL,
		row_key       TEXT        NOT NULL,
		properties    JSONB       NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (table_name, partition_key, row_key)
	)`

// TableStore serves partition scans from the table_entities table
type TableStore struct {
	db *database.PostgresDB
}

// NewTableStore creates the store and its table if missing
func NewTableStore(ctx context.Context, db *database.PostgresDB) (*TableStore, error) {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create table_entities: %w", err)
	}
	return &TableStore{db: db}, nil
}

// ScanPartition returns every row of the partition ordered by row key.
// COLLATE "C" keeps the order byte-wise like the other backends.
func (s *TableStore) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	query := `
		SELECT row_key, properties, updated_at
		FROM table_entities
		WHERE table_name = $1 AND partition_key = $2
		ORDER BY row_key COLLATE "C"`

	rows, err := s.db.Pool.Query(ctx, query, table.Name, table.PartitionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query partition: %w", err)
	}
	defer rows.Close()

	var entities []domain.TableEntity
	for rows.Next() {
		var (
			rowKey     string
			properties []byte
			updatedAt  time.Time
		)
		if err := rows.Scan(&rowKey, &properties, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		entities = append(entities, domain.TableEntity{
			PartitionKey: table.PartitionKey,
			RowKey:       rowKey,
			Timestamp:    updatedAt,
			Properties:   properties,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return entities, nil
}

// PutEntity upserts a row
func (s *TableStore) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	query := `
		INSERT INTO table_entities (table_name, partition_key, row_key, properties, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (table_name, partition_key, row_key)
		DO UPDATE SET properties = EXCLUDED.properties, updated_at = EXCLUDED.updated_at`

	ts := entity.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.Pool.Exec(ctx, query, table.Name, table.PartitionKey, entity.RowKey, []byte(entity.Properties), ts)
	if err != nil {
		return fmt.Errorf("failed to upsert row: %w", err)
	}
	return nil
}

// Ping checks the connection pool
func (s *TableStore) Ping(ctx context.Context) error {
	return s.db.Pool.Ping(ctx)
}

// Close closes the connection pool
func (s *TableStore) Close() error {
	s.db.Close()
	return nil
}
