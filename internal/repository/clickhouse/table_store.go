package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/pkg/database"
)

const schema = `
	CREATE TABLE IF NOT EXISTS table_entities (
		table_name    LowCardinality(String),
		partition_key String,
		row_key       String,
		properties    String,
		updated_at    DateTime64(3, 'UTC')
	)
	ENGINE = ReplacingMergeTree(updated_at)
	ORDER BY (table_name, partition_key, row_key)`

type entityRow struct {
	RowKey     string    `ch:"row_key"`
	Properties string    `ch:"properties"`
	UpdatedAt  time.Time `ch:"updated_at"`
}

// TableStore serves partition scans from a ReplacingMergeTree table.
// Reads use FINAL so only the latest version of each row is returned.
type TableStore struct {
	db *database.ClickHouseDB
}

// NewTableStore creates the store and its table if missing
func NewTableStore(ctx context.Context, db *database.ClickHouseDB) (*TableStore, error) {
	if err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create table_entities: %w", err)
	}
	return &TableStore{db: db}, nil
}

// ScanPartition returns every row of the partition ordered by row key
func (s *TableStore) ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error) {
	query := `
		SELECT row_key, properties, updated_at
		FROM table_entities FINAL
		WHERE table_name = ? AND partition_key = ?
		ORDER BY row_key`

	var rows []entityRow
	if err := s.db.Select(ctx, &rows, query, table.Name, table.PartitionKey); err != nil {
		return nil, fmt.Errorf("failed to query partition: %w", err)
	}

	entities := make([]domain.TableEntity, 0, len(rows))
	for _, r := range rows {
		entities = append(entities, domain.TableEntity{
			PartitionKey: table.PartitionKey,
			RowKey:       r.RowKey,
			Timestamp:    r.UpdatedAt,
			Properties:   []byte(r.Properties),
		})
	}
	return entities, nil
}

// PutEntity inserts a new version of a row
func (s *TableStore) PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error {
	query := `
		INSERT INTO table_entities (table_name, partition_key, row_key, properties, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	ts := entity.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	if err := s.db.Exec(ctx, query, table.Name, table.PartitionKey, entity.RowKey, string(entity.Properties), ts); err != nil {
		return fmt.Errorf("failed to insert row: %w", err)
	}
	return nil
}

// Ping checks the connection
func (s *TableStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the connection
func (s *TableStore) Close() error {
	return s.db.Close()
}
