package cursor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/leapsp/pkg/value"
)

// Conn is the data-access capability a cursor opens against.
type Conn interface {
	Prepare(ctx context.Context, query string) (Stmt, error)
}

// Stmt is a prepared statement with positional parameters.
type Stmt interface {
	// Bind sets the parameter at pos, counting from 1.
	Bind(pos int, v any) error
	ExecuteQuery(ctx context.Context) (ResultSet, error)
	Close() error
}

// ResultSet is a forward-only stream of rows.
type ResultSet interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error

	// IsClosed reports whether Close was called. Running off the end of the
	// stream does not close it.
	IsClosed() bool
}

// Preparer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// SQLConn adapts database/sql to Conn.
type SQLConn struct {
	p Preparer
}

// NewSQLConn wraps p.
func NewSQLConn(p Preparer) *SQLConn {
	return &SQLConn{p: p}
}

// Prepare implements Conn.
func (c *SQLConn) Prepare(ctx context.Context, query string) (Stmt, error) {
	if c == nil || c.p == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	stmt, err := c.p.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &sqlStmt{stmt: stmt}, nil
}

type sqlStmt struct {
	stmt *sql.Stmt
	args []any
}

func (s *sqlStmt) Bind(pos int, v any) error {
	if pos < 1 {
		return fmt.Errorf("parameter position %d out of range", pos)
	}
	for len(s.args) < pos {
		s.args = append(s.args, nil)
	}
	s.args[pos-1] = driverArg(v)
	return nil
}

// driverArg unwraps runtime values into what database/sql accepts.
func driverArg(v any) any {
	if val, ok := v.(value.Value); ok {
		return value.ToGo(val)
	}
	return v
}

func (s *sqlStmt) ExecuteQuery(ctx context.Context) (ResultSet, error) {
	//nolint:rowserrcheck // rows.Err() is checked by the cursor on exhaustion
	rows, err := s.stmt.QueryContext(ctx, s.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &sqlRows{rows: rows}, nil
}

func (s *sqlStmt) Close() error {
	return s.stmt.Close()
}

type sqlRows struct {
	rows   *sql.Rows
	closed bool
}

func (r *sqlRows) Next() bool                 { return r.rows.Next() }
func (r *sqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *sqlRows) Err() error                 { return r.rows.Err() }
func (r *sqlRows) IsClosed() bool             { return r.closed }

func (r *sqlRows) Close() error {
	r.closed = true
	return r.rows.Close()
}
