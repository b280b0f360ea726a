package starlark

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapsp/pkg/cursor"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"go.starlark.net/starlark"
)

// cursorValue is the script face of a cursor.Cursor.
//
// Methods: open(*params), fetch(), close(), columns().
// Attributes: isopen, found, notfound, rowcount, query.
type cursorValue struct {
	h   *Host
	ctx context.Context
	c   *cursor.Cursor
}

var _ starlark.HasAttrs = (*cursorValue)(nil)

func (cv *cursorValue) String() string        { return fmt.Sprintf("<cursor %q>", cv.c.Query()) }
func (cv *cursorValue) Type() string          { return "cursor" }
func (cv *cursorValue) Freeze()               {}
func (cv *cursorValue) Truth() starlark.Bool  { return true }
func (cv *cursorValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: cursor") }

func (cv *cursorValue) AttrNames() []string {
	return []string{"close", "columns", "fetch", "found", "isopen", "notfound", "open", "query", "rowcount"}
}

func (cv *cursorValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "open":
		return starlark.NewBuiltin("open", cv.open).BindReceiver(cv), nil
	case "fetch":
		return starlark.NewBuiltin("fetch", cv.fetch).BindReceiver(cv), nil
	case "close":
		return starlark.NewBuiltin("close", cv.close).BindReceiver(cv), nil
	case "columns":
		return starlark.NewBuiltin("columns", cv.columns).BindReceiver(cv), nil
	case "query":
		return starlark.String(cv.c.Query()), nil
	case "isopen":
		return starlark.Bool(cv.c.IsOpen()), nil
	case "found":
		found, err := cv.c.Found()
		if err != nil {
			return nil, err
		}
		return starlark.Bool(found), nil
	case "notfound":
		notFound, err := cv.c.NotFound()
		if err != nil {
			return nil, err
		}
		return starlark.Bool(notFound), nil
	case "rowcount":
		n, err := cv.c.RowCount()
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt64(n), nil
	default:
		return nil, nil
	}
}

func (cv *cursorValue) open(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	if cv.h.conn == nil {
		return nil, fmt.Errorf("%s: no target connection", b.Name())
	}

	params := make([]any, len(args))
	for i, a := range args {
		v, err := ToValue(a)
		if err != nil {
			return nil, fmt.Errorf("%s: parameter %d: %w", b.Name(), i+1, err)
		}
		params[i] = v
	}

	if err := cv.c.Open(cv.ctx, cv.h.conn, params...); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// fetch returns the next row as a tuple of values, or None at the end.
func (cv *cursorValue) fetch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	row, err := cv.c.FetchRow()
	if err != nil {
		return nil, err
	}
	if row == nil {
		return starlark.None, nil
	}
	return cv.tuple(row), nil
}

func (cv *cursorValue) tuple(row []value.Value) starlark.Tuple {
	t := make(starlark.Tuple, len(row))
	for i, v := range row {
		t[i] = cv.h.wrap(v)
	}
	return t
}

func (cv *cursorValue) close(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	if err := cv.c.Close(); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func (cv *cursorValue) columns(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	cols, err := cv.c.Columns()
	if err != nil {
		return nil, err
	}
	list := make([]starlark.Value, len(cols))
	for i, c := range cols {
		list[i] = starlark.String(c)
	}
	return starlark.NewList(list), nil
}
