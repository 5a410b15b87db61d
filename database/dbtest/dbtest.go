// Package dbtest provides an in-memory SQLite database with the service
// schema applied, for use in package tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"waitfaster_server/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// New returns a migrated, isolated database that is closed when t ends.
// The pool holds a single connection, so code under test must use the
// transaction handle inside RunInTx.
func New(t testing.TB) *database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := database.New(bun.NewDB(sqldb, sqlitedialect.New()))
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}
