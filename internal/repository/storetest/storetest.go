// Package storetest holds the behaviour every table store backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectionapp/reflection/api/internal/domain"
)

// Store is the subset of the backend contract exercised here
type Store interface {
	ScanPartition(ctx context.Context, table domain.Table) ([]domain.TableEntity, error)
	PutEntity(ctx context.Context, table domain.Table, entity domain.TableEntity) error
	Ping(ctx context.Context) error
}

// Partition returns a partition of a real dataset table that no other run uses
func Partition(name string) domain.Table {
	return domain.Table{Name: name, PartitionKey: "storetest-" + uuid.NewString()}
}

func props(value string) []byte {
	return []byte(fmt.Sprintf(`{"value":%q,"isDefaultFlag":true}`, value))
}

// Run exercises the scan primitive contract against store
func Run(t *testing.T, store Store) {
	t.Helper()

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(context.Background()))
	})

	t.Run("empty partition", func(t *testing.T) {
		entities, err := store.ScanPartition(context.Background(), Partition(domain.FocusDataName))
		require.NoError(t, err)
		assert.Empty(t, entities)
	})

	t.Run("scan returns rows ordered by row key", func(t *testing.T) {
		ctx := context.Background()
		table := Partition(domain.ConfidenceDataName)
		now := time.Now().UTC()

		for _, key := range []string{"c", "a", "b"} {
			require.NoError(t, store.PutEntity(ctx, table, domain.TableEntity{
				PartitionKey: table.PartitionKey,
				RowKey:       key,
				Timestamp:    now,
				Properties:   props(key),
			}))
		}

		entities, err := store.ScanPartition(ctx, table)
		require.NoError(t, err)
		require.Len(t, entities, 3)

		for i, key := range []string{"a", "b", "c"} {
			assert.Equal(t, key, entities[i].RowKey)
			assert.Equal(t, table.PartitionKey, entities[i].PartitionKey)
			assert.JSONEq(t, string(props(key)), string(entities[i].Properties))
			assert.WithinDuration(t, now, entities[i].Timestamp, 5*time.Minute)
		}
	})

	t.Run("put overwrites existing row", func(t *testing.T) {
		ctx := context.Background()
		table := Partition(domain.EnergyDataName)

		require.NoError(t, store.PutEntity(ctx, table, domain.TableEntity{
			PartitionKey: table.PartitionKey,
			RowKey:       "row",
			Timestamp:    time.Now().UTC(),
			Properties:   props("Low"),
		}))
		require.NoError(t, store.PutEntity(ctx, table, domain.TableEntity{
			PartitionKey: table.PartitionKey,
			RowKey:       "row",
			Timestamp:    time.Now().UTC().Add(time.Second),
			Properties:   props("High"),
		}))

		entities, err := store.ScanPartition(ctx, table)
		require.NoError(t, err)
		require.Len(t, entities, 1)
		assert.JSONEq(t, string(props("High")), string(entities[0].Properties))
	})

	t.Run("partitions are isolated", func(t *testing.T) {
		ctx := context.Background()
		a := Partition(domain.FocusDataName)
		b := Partition(domain.FocusDataName)

		require.NoError(t, store.PutEntity(ctx, a, domain.TableEntity{
			PartitionKey: a.PartitionKey,
			RowKey:       uuid.NewString(),
			Timestamp:    time.Now().UTC(),
			Properties:   props("Sharp"),
		}))

		entities, err := store.ScanPartition(ctx, b)
		require.NoError(t, err)
		assert.Empty(t, entities)
	})
}
