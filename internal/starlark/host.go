package starlark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapsp/internal/proc"
	"github.com/leapstack-labs/leapsp/pkg/cursor"
	"github.com/leapstack-labs/leapsp/pkg/op"
	"github.com/leapstack-labs/leapsp/pkg/overload"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// fileOptions enables the statements procedure bodies need at top level.
var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Host executes procedure scripts against one proc.Context.
type Host struct {
	proc     *proc.Context
	conn     cursor.Conn
	registry *overload.Registry
	rounding op.Rounding
	target   *TargetInfo
	args     map[string]any
	logger   *slog.Logger

	cursors []*cursor.Cursor
}

// Option configures a Host.
type Option func(*Host)

// WithConn sets the connection cursors open against. Without one, cursor
// operations fail.
func WithConn(c cursor.Conn) Option {
	return func(h *Host) { h.conn = c }
}

// WithRegistry replaces the default overload registry.
func WithRegistry(r *overload.Registry) Option {
	return func(h *Host) {
		if r != nil {
			h.registry = r
		}
	}
}

// WithRounding sets the rounding of NUMERIC division.
func WithRounding(r op.Rounding) Option {
	return func(h *Host) { h.rounding = r }
}

// WithTarget exposes target information as the "target" global.
func WithTarget(t *TargetInfo) Option {
	return func(h *Host) { h.target = t }
}

// WithArgs exposes script arguments as the "args" dict.
func WithArgs(args map[string]any) Option {
	return func(h *Host) { h.args = args }
}

// NewHost returns a host reporting through pc.
func NewHost(pc *proc.Context, opts ...Option) *Host {
	h := &Host{
		proc:     pc,
		registry: overload.Default(),
		rounding: op.HalfUp,
		logger:   pc.Logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.rounding != op.HalfUp {
		h.registry = h.registry.WithDecimalRounding(h.rounding)
	}
	return h
}

// Proc returns the execution context.
func (h *Host) Proc() *proc.Context {
	return h.proc
}

// Exec runs a script. Cursors the script leaves open are closed afterwards.
// An uncaught condition is returned in an *EvalError that unwraps to it.
func (h *Host) Exec(ctx context.Context, filename string, src any) (err error) {
	globals, err := h.predeclared(ctx)
	if err != nil {
		return err
	}

	thread, stop := h.newThread(ctx, filename)
	defer stop()
	defer func() {
		err = errors.Join(err, h.closeCursors())
	}()

	h.logger.Debug("executing script", "file", filename)
	_, err = starlark.ExecFileOptions(fileOptions, thread, filename, src, globals)
	if err != nil {
		return newEvalError(filename, err)
	}
	return nil
}

func (h *Host) closeCursors() error {
	var errs []error
	for _, c := range h.cursors {
		if c.IsOpen() {
			h.logger.Debug("closing cursor left open", "query", c.Query())
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	h.cursors = nil
	return errors.Join(errs...)
}

// call dispatches an operator through the host registry.
func (h *Host) call(name string, args []value.Value) (value.Value, error) {
	return h.registry.Eval(name, args...)
}

func (h *Host) wrap(v value.Value) *Value {
	return &Value{v: v, ev: h}
}

// EvalError reports a script failure at the innermost script position.
type EvalError struct {
	File      string
	Line      int
	Message   string
	Backtrace string

	cause error
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Unwrap returns the underlying error, such as a raised condition.
func (e *EvalError) Unwrap() error {
	return e.cause
}

func newEvalError(filename string, err error) *EvalError {
	ee := &EvalError{File: filename, Message: err.Error(), cause: err}

	var se syntax.Error
	if errors.As(err, &se) {
		ee.Line = int(se.Pos.Line)
		ee.Message = se.Msg
		return ee
	}

	var serr *starlark.EvalError
	if errors.As(err, &serr) {
		ee.Message = serr.Msg
		ee.Backtrace = serr.Backtrace()
		for i := len(serr.CallStack) - 1; i >= 0; i-- {
			if pos := serr.CallStack[i].Pos; pos.Filename() == filename {
				ee.Line = int(pos.Line)
				break
			}
		}
		if serr.Unwrap() != nil {
			ee.cause = serr.Unwrap()
		}
	}
	return ee
}
