// Package testutil provides an in-memory database for repository
// tests. SQLite stands in for Postgres; the repositories stick to SQL
// both engines accept.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

// NewDB opens a fresh in-memory database scoped to one test.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	return db
}

type initializer interface {
	InitializeDatabase(ctx context.Context) error
}

// InitSchema runs each repository's schema bootstrap against the test
// database.
func InitSchema(t *testing.T, inits ...initializer) {
	t.Helper()
	for _, init := range inits {
		require.NoError(t, init.InitializeDatabase(context.Background()))
	}
}
