package cursor

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leapsp/internal/testutil"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records what the cursor does with its statement and stream.
type fakeConn struct {
	prepareErr error
	execErr    error
	rows       [][]any
	stmt       *fakeStmt
}

func (c *fakeConn) Prepare(_ context.Context, _ string) (Stmt, error) {
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	c.stmt = &fakeStmt{conn: c, bound: map[int]any{}}
	return c.stmt, nil
}

type fakeStmt struct {
	conn     *fakeConn
	bound    map[int]any
	closed   bool
	closeErr error
	rs       *fakeRows
}

func (s *fakeStmt) Bind(pos int, v any) error {
	s.bound[pos] = v
	return nil
}

func (s *fakeStmt) ExecuteQuery(context.Context) (ResultSet, error) {
	if s.conn.execErr != nil {
		return nil, s.conn.execErr
	}
	s.rs = &fakeRows{rows: s.conn.rows, pos: -1}
	return s.rs, nil
}

func (s *fakeStmt) Close() error {
	s.closed = true
	return s.closeErr
}

type fakeRows struct {
	rows     [][]any
	pos      int
	closed   bool
	closeErr error
	scanErr  error
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	for i, d := range dest {
		*(d.(*any)) = r.rows[r.pos][i]
	}
	return nil
}

func (r *fakeRows) Columns() ([]string, error) { return []string{"a", "b"}, nil }
func (r *fakeRows) Err() error                 { return nil }
func (r *fakeRows) IsClosed() bool             { return r.closed }

func (r *fakeRows) Close() error {
	r.closed = true
	return r.closeErr
}

func TestCursor_Lifecycle(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{rows: [][]any{{int64(1), "x"}, {int64(2), "y"}}}
	c := New("SELECT a, b FROM t WHERE a > ?", WithLogger(testutil.NewTestLogger(t)))

	t.Run("closed cursor rejects attributes", func(t *testing.T) {
		assert.False(t, c.IsOpen())

		_, err := c.Found()
		assert.True(t, cond.IsInvalidCursor(err))
		_, err = c.NotFound()
		assert.True(t, cond.IsInvalidCursor(err))
		_, err = c.RowCount()
		assert.True(t, cond.IsInvalidCursor(err))
		_, err = c.Fetch()
		assert.True(t, cond.IsInvalidCursor(err))
	})

	t.Run("open", func(t *testing.T) {
		require.NoError(t, c.Open(ctx, conn, value.NewInt(0)))
		assert.True(t, c.IsOpen())
		assert.Equal(t, value.NewInt(0), conn.stmt.bound[1])

		n, err := c.RowCount()
		require.NoError(t, err)
		assert.Zero(t, n)

		notFound, err := c.NotFound()
		require.NoError(t, err)
		assert.True(t, notFound)
	})

	t.Run("open twice", func(t *testing.T) {
		first := conn.stmt
		err := c.Open(ctx, conn)
		assert.True(t, cond.IsCursorAlreadyOpen(err))
		assert.True(t, c.IsOpen())
		assert.Same(t, first, conn.stmt)
	})

	t.Run("fetch to exhaustion", func(t *testing.T) {
		row, err := c.FetchRow()
		require.NoError(t, err)
		assert.Equal(t, []value.Value{value.NewBigint(1), value.NewString("x")}, row)

		found, err := c.Found()
		require.NoError(t, err)
		assert.True(t, found)

		var a, b any
		ok, err := c.Fetch(&a, &b)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "y", b)

		ok, err = c.Fetch(&a, &b)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, c.IsOpen())

		n, err := c.RowCount()
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("close twice", func(t *testing.T) {
		stmt := conn.stmt
		require.NoError(t, c.Close())
		assert.True(t, stmt.closed)
		assert.True(t, stmt.rs.closed)
		assert.False(t, c.IsOpen())

		require.NoError(t, c.Close())
	})

	t.Run("reopen", func(t *testing.T) {
		require.NoError(t, c.Open(ctx, conn))
		n, err := c.RowCount()
		require.NoError(t, err)
		assert.Zero(t, n)
		require.NoError(t, c.Close())
	})
}

func TestCursor_ScanFailureIsNotCounted(t *testing.T) {
	conn := &fakeConn{rows: [][]any{{1, "x"}}}
	c := New("SELECT a, b FROM t")
	require.NoError(t, c.Open(context.Background(), conn))
	conn.stmt.rs.scanErr = errors.New("bad column")

	var a, b any
	ok, err := c.Fetch(&a, &b)
	assert.ErrorContains(t, err, "bad column")
	assert.False(t, ok)

	n, err := c.RowCount()
	require.NoError(t, err)
	assert.Zero(t, n)

	notFound, err := c.NotFound()
	require.NoError(t, err)
	assert.True(t, notFound)
	require.NoError(t, c.Close())
}

func TestCursor_StreamClosedElsewhere(t *testing.T) {
	ctx := context.Background()
	conn := &fakeConn{}
	c := New("SELECT 1")

	require.NoError(t, c.Open(ctx, conn))
	stale := conn.stmt
	require.NoError(t, stale.rs.Close())

	assert.False(t, c.IsOpen())
	_, err := c.RowCount()
	assert.True(t, cond.IsInvalidCursor(err))

	require.NoError(t, c.Open(ctx, conn))
	assert.True(t, stale.closed)
	assert.True(t, c.IsOpen())
}

func TestCursor_OpenFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("prepare", func(t *testing.T) {
		c := New("SELECT 1")
		err := c.Open(ctx, &fakeConn{prepareErr: errors.New("connection refused")})
		assert.ErrorContains(t, err, "connection refused")
		assert.False(t, c.IsOpen())
	})

	t.Run("execute closes the statement", func(t *testing.T) {
		conn := &fakeConn{execErr: errors.New("syntax error")}
		c := New("SELEC 1")
		err := c.Open(ctx, conn)
		assert.ErrorContains(t, err, "syntax error")
		assert.True(t, conn.stmt.closed)
		assert.False(t, c.IsOpen())
	})
}

func TestCursor_CloseReleasesBoth(t *testing.T) {
	conn := &fakeConn{}
	c := New("SELECT 1")
	require.NoError(t, c.Open(context.Background(), conn))

	stmt := conn.stmt
	stmt.rs.closeErr = errors.New("stream lost")
	stmt.closeErr = errors.New("connection reset")

	err := c.Close()
	assert.ErrorContains(t, err, "stream lost")
	assert.ErrorContains(t, err, "connection reset")
	assert.True(t, stmt.closed)
	assert.False(t, c.IsOpen())

	assert.NoError(t, c.Close())
}

func TestSQLConn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	prep := mock.ExpectPrepare("SELECT id, name FROM users WHERE id > \\?")
	prep.ExpectQuery().
		WithArgs(int64(10), "x").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(11), "ann").
			AddRow(int64(12), nil))
	prep.WillBeClosed()

	ctx := context.Background()
	c := New("SELECT id, name FROM users WHERE id > ?")
	require.NoError(t, c.Open(ctx, NewSQLConn(db), value.NewInt(10), "x"))

	cols, err := c.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, cols)

	row, err := c.FetchRow()
	require.NoError(t, err)
	assert.Equal(t, []value.Value{value.NewBigint(11), value.NewString("ann")}, row)

	row, err = c.FetchRow()
	require.NoError(t, err)
	assert.Equal(t, value.NewBigint(12), row[0])
	assert.True(t, row[1].IsNull())

	row, err = c.FetchRow()
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.True(t, c.IsOpen())

	require.NoError(t, c.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLConn_NotConnected(t *testing.T) {
	c := New("SELECT 1")
	err := c.Open(context.Background(), NewSQLConn(nil))
	assert.ErrorContains(t, err, "database connection not established")
}

func TestSQLConn_BindPosition(t *testing.T) {
	s := &sqlStmt{}
	assert.Error(t, s.Bind(0, 1))
	require.NoError(t, s.Bind(2, "b"))
	require.NoError(t, s.Bind(1, "a"))
	assert.Equal(t, []any{"a", "b"}, s.args)
}

func TestSQLConn_BindUnwrapsValues(t *testing.T) {
	s := &sqlStmt{}
	require.NoError(t, s.Bind(1, value.NewInt(7)))
	require.NoError(t, s.Bind(2, value.Null))
	assert.Equal(t, []any{int32(7), nil}, s.args)
}

func TestCursor_LogsLifecycle(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	c := New("SELECT a FROM t", WithLogger(logger))

	require.NoError(t, c.Open(context.Background(), &fakeConn{rows: [][]any{{int64(1)}}}))
	_, err := c.Fetch()
	require.NoError(t, err)
	require.NoError(t, c.Close())

	out := logs.String()
	assert.Contains(t, out, "cursor opened")
	assert.Contains(t, out, `query="SELECT a FROM t"`)
	assert.Contains(t, out, "cursor closed")
	assert.Contains(t, out, "rows=1")
}
