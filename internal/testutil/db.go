// Package testutil provides test utilities for directory database setup.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
)

// Schema contains the candidate directory schema used by store and
// integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS candidates (
	trigger TEXT NOT NULL,
	id TEXT NOT NULL,
	name TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (trigger, id)
);
CREATE INDEX IF NOT EXISTS candidates_by_name ON candidates(trigger, name);
`

// NewTestDB creates an in-memory SQLite database with the directory schema.
// The caller is responsible for closing the database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	_, err = db.Exec(Schema)
	require.NoError(t, err)
	return db
}
