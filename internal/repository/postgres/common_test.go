package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/reflectionapp/reflection/api/internal/config"
	"github.com/reflectionapp/reflection/api/internal/domain"
	"github.com/reflectionapp/reflection/api/internal/pkg/database"
)

// getTestDB returns a database connection for integration tests.
// Skips the test when POSTGRES_TEST_HOST is not set or the server is unreachable.
func getTestDB(t *testing.T) *database.PostgresDB {
	t.Helper()

	if os.Getenv("POSTGRES_TEST_HOST") == "" {
		t.Skip("Skipping integration test: POSTGRES_TEST_HOST not set")
	}

	cfg := config.PostgresConfig{
		Host:     os.Getenv("POSTGRES_TEST_HOST"),
		Port:     5432,
		User:     os.Getenv("POSTGRES_TEST_USER"),
		Password: os.Getenv("POSTGRES_TEST_PASS"),
		Database: os.Getenv("POSTGRES_TEST_DB"),
		SSLMode:  "disable",
		MaxConns: 5,
		MinConns: 1,
	}

	if cfg.Database == "" {
		cfg.Database = "test_reflection"
	}
	if cfg.User == "" {
		cfg.User = "postgres"
	}

	db, err := database.NewPostgres(context.Background(), cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to PostgreSQL: %v", err)
	}

	return db
}

// cleanupPartitions removes every row of the values tables
func cleanupPartitions(db *database.PostgresDB) {
	ctx := context.Background()
	for _, table := range []domain.Table{domain.ConfidenceDataTable, domain.EnergyDataTable, domain.FocusDataTable} {
		_, _ = db.Pool.Exec(ctx, "DELETE FROM table_entities WHERE table_name = $1", table.Name)
	}
}
