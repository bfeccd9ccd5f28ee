// Package introspect fetches raw table definitions from a live server.
// The generator only needs this for renames that lack a native verb, so
// the fetch is lazy: nothing is queried unless such an operation is
// encountered.
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/cresho/mygrate/pkg/definition"
	"github.com/cresho/mygrate/pkg/sqlfmt"
)

// ER_NO_SUCH_TABLE
const errNoSuchTable = 1146

// ErrNoDefinition indicates no definition could be obtained, either
// because there is no catalog access or the table does not exist.
var ErrNoDefinition = errors.New("no table definition available")

// Fetcher supplies the raw definition text for a table. Implementations
// must return ErrNoDefinition (possibly wrapped) when the definition
// cannot be located.
type Fetcher interface {
	FetchRawDefinition(ctx context.Context, schema, table string) (definition.Raw, error)
}

// DB is a Fetcher backed by a live connection, using SHOW CREATE TABLE.
type DB struct {
	db *sql.DB
}

func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

var _ Fetcher = &DB{}

func (d *DB) FetchRawDefinition(ctx context.Context, schema, table string) (definition.Raw, error) {
	if d.db == nil {
		return "", ErrNoDefinition
	}
	var name, createTable string
	err := d.db.QueryRowContext(ctx, "SHOW CREATE TABLE "+sqlfmt.QuoteQualified(schema, table)).Scan(&name, &createTable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoDefinition
		}
		var merr *mysql.MySQLError
		if errors.As(err, &merr) && merr.Number == errNoSuchTable {
			return "", fmt.Errorf("%w: %s", ErrNoDefinition, merr.Message)
		}
		return "", err
	}
	return definition.Raw(createTable), nil
}

// Static is a Fetcher over a fixed set of definitions, keyed by table
// name. It serves offline generation and tests.
type Static map[string]definition.Raw

var _ Fetcher = Static{}

func (s Static) FetchRawDefinition(_ context.Context, _, table string) (definition.Raw, error) {
	raw, ok := s[table]
	if !ok {
		return "", ErrNoDefinition
	}
	return raw, nil
}
