package db

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_UpAndDown(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "migrate.db") + "?_pragma=foreign_keys(1)"
	database, err := Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })

	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	version, err := Version(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var tables []string
	err = database.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name <> 'goose_db_version'`)
	require.NoError(t, err)
	sort.Strings(tables)
	assert.Equal(t, []string{
		"access_requests",
		"attachments",
		"clients",
		"contacts",
		"email_logs",
		"email_queue",
		"project_stakeholders",
		"projects",
		"registration_tokens",
		"responses",
		"rfis",
		"users",
	}, tables)

	require.NoError(t, MigrateDown(database.DB, "sqlite"))

	tables = nil
	err = database.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name <> 'goose_db_version'`)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestGetDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", getDialect("sqlite"))
	assert.Equal(t, "postgres", getDialect("pgx"))
	assert.Equal(t, "mysql", getDialect("mysql"))
}

func TestPrepareSQLite(t *testing.T) {
	dir := t.TempDir()

	dsn, err := prepareSQLite(filepath.Join(dir, "a", "rfi.db"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "rfi.db")+"?_pragma=foreign_keys(1)", dsn)
	assert.DirExists(t, filepath.Join(dir, "a"))

	dsn, err = prepareSQLite(filepath.Join(dir, "rfi.db") + "?_pragma=journal_mode(WAL)")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rfi.db")+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", dsn)

	dsn, err = prepareSQLite(":memory:?_pragma=foreign_keys(0)")
	require.NoError(t, err)
	assert.Equal(t, ":memory:?_pragma=foreign_keys(0)", dsn)
}

func TestInit_EnforcesForeignKeys(t *testing.T) {
	database, err := Init("sqlite", filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(database) })
	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	var enabled int
	require.NoError(t, database.Get(&enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, enabled)

	_, err = database.Exec(`INSERT INTO contacts (id, client_id, name, email, created_at) VALUES ('c1', 'no-such-client', 'Pat', 'pat@example.test', CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}
