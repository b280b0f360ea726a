package starlark

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/leapstack-labs/leapsp/pkg/cursor"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"go.starlark.net/starlark"
)

// constructors are the value builtins, by script name.
var constructors = map[string]types.Type{
	"boolean":   types.Bool,
	"short":     types.Short,
	"integer":   types.Int,
	"bigint":    types.Bigint,
	"numeric":   types.Numeric,
	"float":     types.Float,
	"double":    types.Double,
	"varchar":   types.String,
	"date":      types.Date,
	"time":      types.Time,
	"timestamp": types.Timestamp,
}

// predeclared returns every global a script sees.
func (h *Host) predeclared(ctx context.Context) (starlark.StringDict, error) {
	g := starlark.StringDict{
		"NULL":                 h.wrap(value.Null),
		"op":                   starlark.NewBuiltin("op", h.opBuiltin),
		"put_line":             starlark.NewBuiltin("put_line", h.putLine),
		"raise_condition":      starlark.NewBuiltin("raise_condition", raiseCondition),
		"raise_case_not_found": starlark.NewBuiltin("raise_case_not_found", h.raiseCaseNotFound),
		"catch":                starlark.NewBuiltin("catch", h.catch(ctx)),
		"sqlcode":              starlark.NewBuiltin("sqlcode", h.sqlcode),
		"sqlerrm":              starlark.NewBuiltin("sqlerrm", h.sqlerrm),
		"sysdate":              starlark.NewBuiltin("sysdate", h.sysdate),
		"cursor":               starlark.NewBuiltin("cursor", h.newCursor(ctx)),
	}
	for name, t := range constructors {
		g[name] = starlark.NewBuiltin(name, h.construct(t))
	}

	if h.target != nil {
		g["target"] = h.target.ToStarlark()
	}

	args, err := GoToStarlark(h.args)
	if err != nil {
		return nil, fmt.Errorf("invalid script arguments: %w", err)
	}
	if args == starlark.None {
		args = starlark.NewDict(0)
	}
	g["args"] = args
	return g, nil
}

// op(name, *args) resolves an overload from the runtime argument types and calls it.
func (h *Host) opBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%s: missing operator name", b.Name())
	}
	name, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf("%s: operator name must be a string, got %s", b.Name(), args[0].Type())
	}

	vals := make([]value.Value, len(args)-1)
	for i, a := range args[1:] {
		v, err := ToValue(a)
		if err != nil {
			return nil, fmt.Errorf("%s(%s): argument %d: %w", b.Name(), name, i+1, err)
		}
		vals[i] = v
	}

	r, err := h.call(name, vals)
	if err != nil {
		return nil, err
	}
	return h.wrap(r), nil
}

// construct returns the builtin for type t. Strings are parsed, None gives
// the absent value of t, and other values are converted through their text.
func (h *Host) construct(t types.Type) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x starlark.Value = starlark.None
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0, &x); err != nil {
			return nil, err
		}

		var text string
		switch v := x.(type) {
		case starlark.NoneType:
			return h.wrap(value.Absent(t)), nil
		case starlark.String:
			text = string(v)
		case *Value:
			if v.v.IsNull() {
				return h.wrap(value.Absent(t)), nil
			}
			text = v.v.String()
		default:
			text = x.String()
		}

		v, err := value.Parse(t, text)
		if err != nil {
			return nil, cond.Wrap(cond.ValueError, err)
		}
		return h.wrap(v), nil
	}
}

func (h *Host) putLine(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
		return nil, err
	}

	v, err := ToValue(x)
	if err != nil {
		// Lists, dicts and the like print as Starlark shows them.
		err = h.proc.PutText(x.String())
	} else {
		err = h.proc.PutLine(v)
	}
	if err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// raise_condition(name, code=0, message="") raises a predefined condition,
// or APP_ERROR with a code and message.
func raiseCondition(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		name    string
		code    int
		message string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "code?", &code, "message?", &message); err != nil {
		return nil, err
	}

	k, ok := cond.Parse(name)
	if !ok {
		return nil, fmt.Errorf("%s: unknown condition %q", b.Name(), name)
	}
	if k == cond.AppError {
		if code == 0 {
			code = cond.AppError.Code()
		}
		return nil, cond.Raise(code, message)
	}
	c := cond.New(k)
	c.Message = message
	return nil, c
}

func (h *Host) raiseCaseNotFound(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return nil, h.proc.RaiseCaseNotFound()
}

// catch(fn, *args, **kwargs) calls fn. It returns (result, None) on success
// and (None, condition name) when fn raised, after setting sqlcode() and
// sqlerrm(). Cancellation is not caught.
func (h *Host) catch(ctx context.Context) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: missing function", b.Name())
		}
		fn, ok := args[0].(starlark.Callable)
		if !ok {
			return nil, fmt.Errorf("%s: %s is not callable", b.Name(), args[0].Type())
		}

		result, err := starlark.Call(thread, fn, args[1:], kwargs)
		if err == nil {
			return starlark.Tuple{result, starlark.None}, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}

		c, _ := h.proc.Handle(unwrapScript(err))
		return starlark.Tuple{starlark.None, starlark.String(c.Kind)}, nil
	}
}

// unwrapScript strips Starlark's wrappers so that a script error with no
// condition inside maps to PROGRAM_ERROR with the script's own message.
func unwrapScript(err error) error {
	var c *cond.Condition
	if errors.As(err, &c) {
		return c
	}
	var serr *starlark.EvalError
	if errors.As(err, &serr) {
		return errors.New(serr.Msg)
	}
	return err
}

func (h *Host) sqlcode(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.MakeInt(h.proc.SQLCode), nil
}

func (h *Host) sqlerrm(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.String(h.proc.SQLErrM), nil
}

func (h *Host) sysdate(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return h.wrap(value.NewTimestamp(h.proc.SysDate)), nil
}

// cursor(sql) declares a cursor. It is opened with .open(*params).
func (h *Host) newCursor(ctx context.Context) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var query string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &query); err != nil {
			return nil, err
		}
		c := cursor.New(query, cursor.WithLogger(h.logger))
		h.cursors = append(h.cursors, c)
		return &cursorValue{h: h, ctx: ctx, c: c}, nil
	}
}
