// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/buildline/rfitrack/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// New returns a migrated SQLite database in a temp directory with foreign
// keys enforced. It is closed when the test ends.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}
