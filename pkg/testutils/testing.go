// Package testutils contains some common utilities used exclusively
// by the test suite.
package testutils

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cresho/mygrate/pkg/dbconn"
	"github.com/cresho/mygrate/pkg/flavor"
)

func DSN() string {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		return "mygrate:mygrate@tcp(127.0.0.1:3306)/test?multiStatements=true"
	}
	return dsn
}

// Open returns a pinged handle to the test server, or skips the test
// when no server is reachable. The handle is closed on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("mysql", DSN())
	require.NoError(t, err)
	if err := db.PingContext(t.Context()); err != nil {
		_ = db.Close()
		t.Skipf("no test database reachable at %s: %v", DSN(), err)
	}
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
	return db
}

// Capabilities reads the server version from db and derives the
// capability set generation should use against it.
func Capabilities(t *testing.T, db *sql.DB) flavor.Capabilities {
	t.Helper()
	version, err := dbconn.ServerVersion(t.Context(), db)
	require.NoError(t, err)
	return flavor.New(version)
}

func RunSQL(t *testing.T, stmt string) {
	t.Helper()
	db := Open(t)
	_, err := db.ExecContext(t.Context(), stmt)
	assert.NoError(t, err)
}
