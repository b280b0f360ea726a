// Package proc holds the state of one procedure execution: the SQLCODE and
// SQLERRM slots seen by exception handlers, the SYSDATE fixed at start and
// the PUT_LINE sink.
//
// A Context belongs to one execution and is not safe for concurrent use.
package proc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/leapstack-labs/leapsp/pkg/core"
	"github.com/leapstack-labs/leapsp/pkg/value"
)

// LineWriter receives PUT_LINE output one line at a time.
type LineWriter interface {
	WriteLine(line string) error
}

// LineWriterFunc adapts a function to LineWriter.
type LineWriterFunc func(line string) error

// WriteLine implements LineWriter.
func (f LineWriterFunc) WriteLine(line string) error { return f(line) }

// Lines writes each line to w followed by a newline.
func Lines(w io.Writer) LineWriter {
	return LineWriterFunc(func(line string) error {
		_, err := io.WriteString(w, line+"\n")
		return err
	})
}

// Discard drops every line.
var Discard LineWriter = LineWriterFunc(func(string) error { return nil })

// Context is the per-execution state.
type Context struct {
	// ID identifies the execution in logs and the run history.
	ID string

	// SysDate is the wall-clock time at start, truncated to the second.
	SysDate value.Timestamp

	// SQLCode and SQLErrM describe the last handled condition. Both are
	// zero until Handle sees one.
	SQLCode int
	SQLErrM string

	Out    LineWriter
	Logger *slog.Logger

	lines int
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithID overrides the generated execution id.
func WithID(id string) Option {
	return func(c *Context) { c.ID = id }
}

// WithClock fixes SysDate from now instead of the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.SysDate = sysdate(now()) }
}

// New returns a context writing PUT_LINE output to out, or discarding it when nil.
func New(out LineWriter, opts ...Option) *Context {
	if out == nil {
		out = Discard
	}
	c := &Context{
		ID:      uuid.NewString(),
		SysDate: sysdate(time.Now()),
		Out:     out,
		Logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Logger = c.Logger.With("exec", c.ID)
	return c
}

func sysdate(t time.Time) value.Timestamp {
	return value.TimestampFromTime(t.Truncate(time.Second))
}

// Handle converts err into a condition and records it in SQLCode and SQLErrM.
// It returns false and leaves the slots alone when err is nil.
func (c *Context) Handle(err error) (*cond.Condition, bool) {
	if err == nil {
		return nil, false
	}
	cnd := cond.FromError(err)
	c.record(cnd)
	return cnd, true
}

// HandlePanic is Handle for a recovered panic value.
func (c *Context) HandlePanic(r any) (*cond.Condition, bool) {
	cnd := cond.FromPanic(r)
	if cnd == nil {
		return nil, false
	}
	c.record(cnd)
	return cnd, true
}

func (c *Context) record(cnd *cond.Condition) {
	c.SQLCode = cnd.SQLCode()
	c.SQLErrM = cnd.SQLErrM()
	c.Logger.Debug("condition handled", "condition", string(cnd.Kind), "sqlcode", c.SQLCode)
}

// Protect runs fn and turns a returned error or a panic into a handled
// condition. The error returned is the condition, or nil.
func (c *Context) Protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cnd, _ := c.HandlePanic(r)
			err = cnd
		}
	}()
	if cnd, ok := c.Handle(fn()); ok {
		return cnd
	}
	return nil
}

// PutLine writes the canonical text of v. An absent value prints NULL.
func (c *Context) PutLine(v value.Value) error {
	return c.PutText(v.String())
}

// PutText writes s as is. Embedded newlines produce several output lines;
// a single trailing newline does not add an empty one.
func (c *Context) PutText(s string) error {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for _, line := range lines {
		if err := c.Out.WriteLine(strings.TrimSuffix(line, "\r")); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
		c.lines++
	}
	return nil
}

// LineCount returns the number of lines written so far.
func (c *Context) LineCount() int {
	return c.lines
}

// RaiseCaseNotFound returns the CASE_NOT_FOUND condition a CASE statement
// with no matching branch and no ELSE raises.
func (c *Context) RaiseCaseNotFound() error {
	return cond.RaiseCaseNotFound()
}

// Result summarizes the execution for the run history. A nil runErr is
// success with SQLCODE 0.
func (c *Context) Result(runErr error) core.RunResult {
	res := core.RunResult{Status: core.RunStatusSuccess, Lines: c.lines}
	if runErr == nil {
		return res
	}
	var cnd *cond.Condition
	if !errors.As(runErr, &cnd) {
		cnd = cond.FromError(runErr)
	}
	res.Status = core.RunStatusFailed
	res.SQLCode = cnd.SQLCode()
	res.SQLErrM = cnd.SQLErrM()
	return res
}
