// Package cursor implements explicit cursors: a query bound to at most one
// live result stream, with OPEN, FETCH and CLOSE and the %FOUND, %NOTFOUND,
// %ROWCOUNT and %ISOPEN attributes.
//
// A Cursor is not safe for concurrent use. It blocks only inside the calls
// to Conn, Stmt and ResultSet, and takes timeouts from the caller's context.
package cursor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/leapstack-labs/leapsp/pkg/value"
)

// Cursor is an explicit cursor over one query.
type Cursor struct {
	query  string
	logger *slog.Logger

	stmt Stmt
	rs   ResultSet
	cols []string
	rows int64
}

// Option configures a Cursor.
type Option func(*Cursor)

// WithLogger sets the logger for open and close events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cursor) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a closed cursor over query.
func New(query string, opts ...Option) *Cursor {
	c := &Cursor{
		query:  query,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query returns the query text.
func (c *Cursor) Query() string {
	return c.query
}

// Open prepares the query on conn, binds params from position 1 and executes
// it. Opening an open cursor fails with CURSOR_ALREADY_OPEN and leaves it
// as it was.
func (c *Cursor) Open(ctx context.Context, conn Conn, params ...any) error {
	if c.IsOpen() {
		return cond.New(cond.CursorAlreadyOpen)
	}
	// A stream closed behind our back still holds its statement.
	if err := c.Close(); err != nil {
		c.logger.Debug("releasing stale cursor", "error", err)
	}

	stmt, err := conn.Prepare(ctx, c.query)
	if err != nil {
		return fmt.Errorf("failed to open cursor: %w", err)
	}
	for i, p := range params {
		if err := stmt.Bind(i+1, p); err != nil {
			return errors.Join(fmt.Errorf("failed to bind parameter %d: %w", i+1, err), stmt.Close())
		}
	}
	rs, err := stmt.ExecuteQuery(ctx)
	if err != nil {
		return errors.Join(fmt.Errorf("failed to open cursor: %w", err), stmt.Close())
	}

	c.stmt, c.rs, c.cols, c.rows = stmt, rs, nil, 0
	c.logger.Debug("cursor opened", "query", c.query, "params", len(params))
	return nil
}

// Close releases the stream and the statement. Closing a closed cursor is a
// no-op. Both are released even when the first release fails; the errors
// are joined.
func (c *Cursor) Close() error {
	if c.rs == nil && c.stmt == nil {
		return nil
	}

	var errs []error
	if c.rs != nil {
		if err := c.rs.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close result set: %w", err))
		}
	}
	if c.stmt != nil {
		if err := c.stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close statement: %w", err))
		}
	}
	c.logger.Debug("cursor closed", "query", c.query, "rows", c.rows)
	c.rs, c.stmt = nil, nil
	return errors.Join(errs...)
}

// IsOpen reports whether the cursor holds a stream that has not been closed.
// An exhausted stream is still open.
func (c *Cursor) IsOpen() bool {
	return c.rs != nil && !c.rs.IsClosed()
}

// Fetch advances to the next row and scans it into dest. It returns false,
// leaving the cursor open, once the stream is exhausted.
func (c *Cursor) Fetch(dest ...any) (bool, error) {
	if !c.IsOpen() {
		return false, cond.New(cond.InvalidCursor)
	}
	if !c.rs.Next() {
		if err := c.rs.Err(); err != nil {
			return false, fmt.Errorf("failed to fetch: %w", err)
		}
		return false, nil
	}
	if len(dest) > 0 {
		if err := c.rs.Scan(dest...); err != nil {
			return false, fmt.Errorf("failed to scan row: %w", err)
		}
	}
	c.rows++
	return true, nil
}

// FetchRow fetches the next row as values. It returns nil at the end of the stream.
func (c *Cursor) FetchRow() ([]value.Value, error) {
	cols, err := c.Columns()
	if err != nil {
		return nil, err
	}

	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	ok, err := c.Fetch(ptrs...)
	if err != nil || !ok {
		return nil, err
	}

	row := make([]value.Value, len(raw))
	for i, x := range raw {
		v, err := value.FromGo(x)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", cols[i], err)
		}
		row[i] = v
	}
	return row, nil
}

// Columns returns the column names of the open stream.
func (c *Cursor) Columns() ([]string, error) {
	if !c.IsOpen() {
		return nil, cond.New(cond.InvalidCursor)
	}
	if c.cols == nil {
		cols, err := c.rs.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read columns: %w", err)
		}
		c.cols = cols
	}
	return c.cols, nil
}

// Found reports whether any row has been fetched.
func (c *Cursor) Found() (bool, error) {
	n, err := c.RowCount()
	return n > 0, err
}

// NotFound is the negation of Found.
func (c *Cursor) NotFound() (bool, error) {
	n, err := c.RowCount()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// RowCount returns the number of rows fetched since Open.
func (c *Cursor) RowCount() (int64, error) {
	if !c.IsOpen() {
		return 0, cond.New(cond.InvalidCursor)
	}
	return c.rows, nil
}
