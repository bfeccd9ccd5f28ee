// Package executor applies generated command lists to a live server.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/cresho/mygrate/pkg/sqlgen"
)

// Executor runs commands one at a time, in order, each on a connection
// scoped to the call. A command is one server round trip; batched
// commands are no different here because every command already gets its
// own Exec.
type Executor struct {
	db     *sql.DB
	logger *slog.Logger
	runID  string
	params []any
}

func New(db *sql.DB, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		db:     db,
		logger: logger,
		runID:  uuid.NewString(),
	}
}

// RunID identifies this executor in logs.
func (e *Executor) RunID() string {
	return e.runID
}

// BindParameter stages a parameter for the next command. Staged
// parameters are consumed by exactly one command and cleared whether it
// succeeds or fails.
func (e *Executor) BindParameter(value any) {
	e.params = append(e.params, value)
}

// Apply runs every command in the list. It stops at the first failure.
func (e *Executor) Apply(commands sqlgen.CommandList) error {
	return e.apply(context.Background(), commands)
}

// ApplyContext is Apply with cancellation. The context is checked
// before each command and passed through to the driver, so a cancelled
// context surfaces as an error satisfying errors.Is(err,
// context.Canceled).
func (e *Executor) ApplyContext(ctx context.Context, commands sqlgen.CommandList) error {
	return e.apply(ctx, commands)
}

func (e *Executor) apply(ctx context.Context, commands sqlgen.CommandList) error {
	for i, command := range commands {
		if err := e.exec(ctx, command); err != nil {
			return fmt.Errorf("command %d/%d: %w", i+1, len(commands), err)
		}
	}
	return nil
}

func (e *Executor) exec(ctx context.Context, command sqlgen.Command) error {
	params := e.params
	e.params = nil
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	if _, err := conn.ExecContext(ctx, command.SQL(), params...); err != nil {
		e.logError(command, err)
		return err
	}
	return nil
}

// Query runs a single statement and hands the rows to the caller. The
// connection stays held until the reader is closed.
func (e *Executor) Query(ctx context.Context, statement string) (*RowReader, error) {
	params := e.params
	e.params = nil
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, statement, params...)
	if err != nil {
		_ = conn.Close()
		e.logError(sqlgen.Command{Statements: []string{statement}}, err)
		return nil, err
	}
	return &RowReader{rows: rows, conn: conn}, nil
}

func (e *Executor) logError(command sqlgen.Command, err error) {
	attrs := []any{
		"run", e.runID,
		"sql", command.SQL(),
		"error", err,
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		attrs = append(attrs, "mysql_errno", merr.Number)
	}
	e.logger.Error("command failed", attrs...)
}

// RowReader couples a result set with the connection it runs on.
type RowReader struct {
	rows *sql.Rows
	conn *sql.Conn
}

func (r *RowReader) Rows() *sql.Rows {
	return r.rows
}

// Close releases the rows and the underlying connection.
func (r *RowReader) Close() error {
	err := r.rows.Close()
	if cerr := r.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
