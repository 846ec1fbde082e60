package repository

import (
	"context"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

// Store is the contract every table store backend implements
type Store interface {
	// ScanPartition returns every row of the partition ordered by RowKey
	ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error)
	// PutEntity upserts a single row. It exists for seeding only.
	PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error
	Ping(ctx context.Context) error
	Close() error
}
