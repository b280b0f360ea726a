// Package overload is the operator dispatch table.
//
// Every operator is declared once per operand type combination, with a single
// kernel per cell. Resolution picks the cell for a list of argument types;
// calling it checks the runtime values against the declared types and runs
// the kernel from pkg/op.
//
// Some cells are reserved: they are declared so that resolution over the
// zoned timestamp type succeeds, but they have no kernel. No value of that
// type can be constructed, so they are unreachable from well-typed input.
package overload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
)

// Any is a parameter type that accepts every operand type.
const Any types.Type = -1

// ErrNoRuntime is returned when a reserved overload is called.
var ErrNoRuntime = errors.New("overload has no runtime implementation")

// Func is an overload kernel. ret is the declared result type; args have
// already been checked against the declared parameters.
type Func func(ret types.Type, args []value.Value) (value.Value, error)

// Overload is one cell of the dispatch table.
type Overload struct {
	Name   string
	Params []types.Type
	Result types.Type

	// Variadic means the last parameter repeats zero or more times.
	Variadic bool

	// Reserved overloads resolve but cannot be called.
	Reserved bool

	fn Func
}

// TypeName renders t, spelling Any as ANY.
func TypeName(t types.Type) string {
	if t == Any {
		return "ANY"
	}
	return t.String()
}

// Signature renders the overload as Name(T1, T2) RESULT.
func (o *Overload) Signature() string {
	params := make([]string, len(o.Params))
	for i, p := range o.Params {
		params[i] = TypeName(p)
	}
	if o.Variadic && len(params) > 0 {
		params[len(params)-1] += "..."
	}
	return fmt.Sprintf("%s(%s) %s", o.Name, strings.Join(params, ", "), TypeName(o.Result))
}

func (o *Overload) String() string {
	return o.Signature()
}

// Arity reports whether n arguments fit the parameter list.
func (o *Overload) Arity(n int) bool {
	if o.Variadic {
		return n >= len(o.Params)-1
	}
	return n == len(o.Params)
}

func (o *Overload) param(i int) types.Type {
	if o.Variadic && i >= len(o.Params)-1 {
		return o.Params[len(o.Params)-1]
	}
	return o.Params[i]
}

// accepts reports whether an argument of static type t binds to parameter i.
// With loose set, an untyped NULL binds to any parameter.
func (o *Overload) accepts(i int, t types.Type, loose bool) bool {
	p := o.param(i)
	return p == Any || p == t || (loose && t == types.Null)
}

// Call runs the overload. Absent arguments of any type are accepted; present
// arguments must carry the declared type. Host faults raised by the kernel
// (such as integer division by zero) propagate as panics; see CallGuarded.
func (o *Overload) Call(args ...value.Value) (value.Value, error) {
	if o.Reserved || o.fn == nil {
		return value.Null, fmt.Errorf("%s: %w", o.Signature(), ErrNoRuntime)
	}
	if !o.Arity(len(args)) {
		return value.Null, fmt.Errorf("%s: got %d arguments", o.Signature(), len(args))
	}
	for i, a := range args {
		if a.IsNull() {
			continue
		}
		if p := o.param(i); p != Any && p != a.Type() {
			return value.Null, fmt.Errorf("%s: argument %d is %s", o.Signature(), i+1, a.Type())
		}
	}
	return o.fn(o.Result, args)
}

// CallGuarded is Call with host faults mapped to conditions, so a division
// by zero comes back as a ZERO_DIVIDE *cond.Condition instead of a panic.
func (o *Overload) CallGuarded(args ...value.Value) (v value.Value, err error) {
	defer cond.Recover(&err)
	return o.Call(args...)
}

// ResolveError reports that no single overload fits a call.
type ResolveError struct {
	Op         string
	Args       []types.Type
	Candidates []*Overload
	Ambiguous  bool
}

func (e *ResolveError) Error() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = TypeName(a)
	}
	call := fmt.Sprintf("%s(%s)", e.Op, strings.Join(args, ", "))

	switch {
	case len(e.Candidates) == 0 && !e.Ambiguous:
		return fmt.Sprintf("unknown operator %q", e.Op)
	case e.Ambiguous:
		return fmt.Sprintf("ambiguous call %s: %d candidates", call, len(e.Candidates))
	default:
		return fmt.Sprintf("no overload matches %s", call)
	}
}

// IsResolveError reports whether err is a *ResolveError.
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}
