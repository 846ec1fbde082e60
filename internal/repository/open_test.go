package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reflectionapp/reflection/api/internal/config"
	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/repository/memory"
	"github.com/reflectionapp/reflection/api/internal/repository/sqlite"
)

func TestOpen_Memory(t *testing.T) {
	store, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		Store:  config.StoreConfig{Backend: config.BackendSQLite},
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "values.db")},
	}

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &sqlite.TableStore{}, store)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpen_Unknown(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "cosmos"}})
	assert.Error(t, err)
}

func TestOpenGuarded_LogsBreakerTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := &config.Config{
		Store:          config.StoreConfig{Backend: config.BackendSQLite},
		SQLite:         config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "values.db")},
		CircuitBreaker: config.CircuitBreakerConfig{MaxFailures: 1},
	}

	store, err := OpenGuarded(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, store.Backend())

	require.NoError(t, store.Close())
	_, err = store.ScanPartition(context.Background(), domain.FocusDataTable)
	require.Error(t, err)

	entries := logs.FilterMessage("circuit breaker state changed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "store:FocusData", entries[0].ContextMap()["breaker"])
	assert.Equal(t, "open", entries[0].ContextMap()["to"])
}

func TestOpenGuarded_Unknown(t *testing.T) {
	_, err := OpenGuarded(context.Background(), &config.Config{Store: config.StoreConfig{Backend: "cosmos"}}, zap.NewNop())
	assert.Error(t, err)
}
