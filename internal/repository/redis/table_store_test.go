package redis

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reflectionapp/reflection/api/internal/config"
	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/pkg/database"
	"github.com/reflectionapp/reflection/api/internal/repository/storetest"
)

func getTestStore(t *testing.T) *TableStore {
	t.Helper()

	if os.Getenv("REDIS_TEST_HOST") == "" {
		t.Skip("Skipping integration test: REDIS_TEST_HOST not set")
	}

	cfg := config.RedisConfig{
		Host: os.Getenv("REDIS_TEST_HOST"),
		Port: 6379,
		DB:   15,
	}
	if port, err := strconv.Atoi(os.Getenv("REDIS_TEST_PORT")); err == nil {
		cfg.Port = port
	}

	client, err := database.NewRedis(context.Background(), cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to Redis: %v", err)
	}

	return NewTableStore(client, "test-tables")
}

func TestTableStore_Integration(t *testing.T) {
	store := getTestStore(t)
	defer store.Close()

	storetest.Run(t, store)
}

func TestTableStore_CorruptRow(t *testing.T) {
	store := getTestStore(t)
	defer store.Close()

	ctx := context.Background()
	table := storetest.Partition(domain.FocusDataName)
	require.NoError(t, store.client.HSet(ctx, store.key(table), "bad", "not json").Err())
	defer store.client.Del(ctx, store.key(table))

	_, err := store.ScanPartition(ctx, table)
	assert.Error(t, err)
}

func TestTableStore_Key(t *testing.T) {
	store := NewTableStore(nil, "tables")
	assert.Equal(t, "tables:EnergyData:EnergyData", store.key(domain.EnergyDataTable))
}
