package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresDBEmptyDSN(t *testing.T) {
	_, err := NewPostgresDB(context.Background(), "  ")
	require.Error(t, err)
}

func TestNewPostgresDBUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPostgresDB(ctx, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
}

// Runs against a real server when TEST_POSTGRES_DSN is set.
func TestMigrateIsIncremental(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := NewPostgresDB(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `DROP TABLE IF EXISTS migrate_probe, schema_migrations`)
	require.NoError(t, err)

	first := []string{`CREATE TABLE migrate_probe (id INTEGER)`}
	require.NoError(t, Migrate(ctx, db, first...))
	// Re-running must not fail on the existing table.
	require.NoError(t, Migrate(ctx, db, first...))

	second := append(first, `ALTER TABLE migrate_probe ADD COLUMN name TEXT`)
	require.NoError(t, Migrate(ctx, db, second...))

	var version int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version))
	assert.Equal(t, 2, version)

	_, err = db.ExecContext(ctx, `DROP TABLE migrate_probe, schema_migrations`)
	require.NoError(t, err)
}
