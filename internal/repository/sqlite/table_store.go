// Package sqlite serves partition scans from a local SQLite database.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS table_entities (
		table_name    TEXT NOT NULL,
		partition_key TEXT NOT NULL,
		row_key       TEXT NOT NULL,
		properties    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		PRIMARY KEY (table_name, partition_key, row_key)
	)`

type entityRow struct {
	RowKey     string `db:"row_key"`
	Properties string `db:"properties"`
	UpdatedAt  string `db:"updated_at"`
}

// TableStore serves partition scans from the table_entities table
type TableStore struct {
	db *sqlx.DB
}

// NewTableStore creates the store and its table if missing
func NewTableStore(ctx context.Context, db *sqlx.DB) (*TableStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create table_entities: %w", err)
	}
	return &TableStore{db: db}, nil
}

// ScanPartition returns every row of the partition ordered by row key
func (s *TableStore) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	query := `
		SELECT row_key, properties, updated_at
		FROM table_entities
		WHERE table_name = ? AND partition_key = ?
		ORDER BY row_key`

	var rows []entityRow
	if err := s.db.SelectContext(ctx, &rows, query, table.Name, table.PartitionKey); err != nil {
		return nil, fmt.Errorf("failed to query partition: %w", err)
	}

	entities := make([]domain.TableEntity, 0, len(rows))
	for _, r := range rows {
		ts, err := time.Parse(time.RFC3339Nano, r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at of row %s: %w", r.RowKey, err)
		}
		entities = append(entities, domain.TableEntity{
			PartitionKey: table.PartitionKey,
			RowKey:       r.RowKey,
			Timestamp:    ts,
			Properties:   []byte(r.Properties),
		})
	}
	return entities, nil
}

// PutEntity upserts a row
func (s *TableStore) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	query := `
		INSERT INTO table_entities (table_name, partition_key, row_key, properties, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (table_name, partition_key, row_key)
		DO UPDATE SET properties = excluded.properties, updated_at = excluded.updated_at`

	ts := entity.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		table.Name,
		table.PartitionKey,
		entity.RowKey,
		string(entity.Properties),
		ts.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert row: %w", err)
	}
	return nil
}

// Ping checks the database handle
func (s *TableStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *TableStore) Close() error {
	return s.db.Close()
}
