// Package starlark hosts procedure scripts. Scripts call the operator library
// through op(), open cursors against the target and report through put_line,
// with exception handling modeled by catch().
package starlark

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/leapsp/pkg/core"
	"github.com/leapstack-labs/leapsp/pkg/overload"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// TargetInfo contains the target a script runs against.
// Exposed as the "target" global.
type TargetInfo struct {
	Type     string // "duckdb", "postgres", "sqlite"
	Schema   string
	Database string
}

// ToStarlark converts TargetInfo to a Starlark struct value.
func (t *TargetInfo) ToStarlark() starlark.Value {
	return starlarkstruct.FromStringDict(starlark.String("target"), starlark.StringDict{
		"type":     starlark.String(t.Type),
		"schema":   starlark.String(t.Schema),
		"database": starlark.String(t.Database),
	})
}

// TargetInfoFromConfig extracts the fields scripts may see (no credentials).
func TargetInfoFromConfig(t *core.TargetConfig) *TargetInfo {
	if t == nil {
		return nil
	}
	return &TargetInfo{
		Type:     t.Type,
		Schema:   t.Schema,
		Database: t.Database,
	}
}

// Value is a typed runtime value inside a script. It keeps the declared type
// of absent values, which None cannot.
type Value struct {
	v  value.Value
	ev evaluator
}

var (
	_ starlark.Value      = (*Value)(nil)
	_ starlark.HasAttrs   = (*Value)(nil)
	_ starlark.Comparable = (*Value)(nil)
	_ starlark.HasBinary  = (*Value)(nil)
	_ starlark.HasUnary   = (*Value)(nil)
)

// NewValue wraps v.
func NewValue(v value.Value) *Value {
	return &Value{v: v}
}

// Unwrap returns the runtime value.
func (x *Value) Unwrap() value.Value { return x.v }

func (x *Value) String() string { return x.v.String() }

// Type returns "value".
func (x *Value) Type() string { return "value" }

func (x *Value) Freeze() {}

// Truth treats absent like false, as an IF condition does.
func (x *Value) Truth() starlark.Bool {
	if x.v.IsNull() {
		return false
	}
	if b, ok := x.v.Raw().(bool); ok {
		return starlark.Bool(b)
	}
	return true
}

// Hash agrees with value.Equal: equal NUMERICs of different scale and
// absent values of any type hash alike.
func (x *Value) Hash() (uint32, error) {
	return starlark.String(hashKey(x.v)).Hash()
}

func hashKey(v value.Value) string {
	if v.IsNull() {
		return value.NullText
	}
	text := v.String()
	switch raw := v.Raw().(type) {
	case *apd.Decimal:
		if raw.IsZero() {
			text = "0"
		} else {
			var d apd.Decimal
			d.Reduce(raw)
			text = d.Text('f')
		}
	case float32:
		if raw == 0 {
			text = "0"
		}
	case float64:
		if raw == 0 {
			text = "0"
		}
	}
	return v.Type().String() + ":" + text
}

// CompareSameType supports == and != only; ordering goes through op().
func (x *Value) CompareSameType(tok syntax.Token, y starlark.Value, _ int) (bool, error) {
	eq := value.Equal(x.v, y.(*Value).v)
	switch tok {
	case syntax.EQL:
		return eq, nil
	case syntax.NEQ:
		return !eq, nil
	default:
		return false, fmt.Errorf("%s %s %s not supported, use op()", x.Type(), tok, y.Type())
	}
}

var binaryOps = map[syntax.Token]string{
	syntax.PLUS:       "Add",
	syntax.MINUS:      "Sub",
	syntax.STAR:       "Mult",
	syntax.SLASH:      "Div",
	syntax.SLASHSLASH: "DivInt",
	syntax.PERCENT:    "Mod",
	syntax.AMP:        "BitAnd",
	syntax.PIPE:       "BitOr",
	syntax.CIRCUMFLEX: "BitXor",
	syntax.LTLT:       "BitShiftLeft",
	syntax.GTGT:       "BitShiftRight",
}

// evaluator dispatches operators. Values made by a host use the host's
// registry so that arithmetic agrees with op().
type evaluator interface {
	call(name string, args []value.Value) (value.Value, error)
}

type registryEval struct{}

func (registryEval) call(name string, args []value.Value) (value.Value, error) {
	return overload.Eval(name, args...)
}

func (x *Value) eval(name string, args ...value.Value) (starlark.Value, error) {
	ev := x.ev
	if ev == nil {
		ev = registryEval{}
	}
	r, err := ev.call(name, args)
	if err != nil {
		return nil, err
	}
	return &Value{v: r, ev: x.ev}, nil
}

// Binary maps the arithmetic and bitwise operators to the overload registry.
// The other operand is converted with ToValue.
func (x *Value) Binary(tok syntax.Token, y starlark.Value, side starlark.Side) (starlark.Value, error) {
	name, ok := binaryOps[tok]
	if !ok {
		return nil, nil
	}
	other, err := ToValue(y)
	if err != nil {
		return nil, nil
	}
	if side == starlark.Right {
		return x.eval(name, other, x.v)
	}
	return x.eval(name, x.v, other)
}

// Unary supports -x and ~x.
func (x *Value) Unary(tok syntax.Token) (starlark.Value, error) {
	var name string
	switch tok {
	case syntax.MINUS:
		name = "Neg"
	case syntax.TILDE:
		name = "BitCompli"
	default:
		return nil, nil
	}
	return x.eval(name, x.v)
}

// Attr exposes type, is_null and py (the nearest native Starlark value).
func (x *Value) Attr(name string) (starlark.Value, error) {
	switch name {
	case "type":
		return starlark.String(x.v.Type().String()), nil
	case "is_null":
		return starlark.Bool(x.v.IsNull()), nil
	case "py":
		return Native(x.v), nil
	default:
		return nil, nil
	}
}

func (x *Value) AttrNames() []string {
	return []string{"is_null", "py", "type"}
}

// ToValue converts a script value into a runtime value. Starlark ints become
// INT when they fit in 32 bits, BIGINT when they fit in 64 and NUMERIC
// otherwise. None is the untyped NULL.
func ToValue(sv starlark.Value) (value.Value, error) {
	switch v := sv.(type) {
	case *Value:
		return v.v, nil
	case starlark.NoneType:
		return value.Null, nil
	case starlark.Bool:
		return value.NewBool(bool(v)), nil
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return value.NewInt(int32(i)), nil
			}
			return value.NewBigint(i), nil
		}
		return value.Parse(types.Numeric, v.String())
	case starlark.Float:
		return value.NewDouble(float64(v)), nil
	case starlark.String:
		return value.NewString(string(v)), nil
	default:
		return value.Null, fmt.Errorf("cannot use %s as a value", sv.Type())
	}
}

// Native converts a runtime value into the nearest plain Starlark value.
// NUMERIC and temporal values become their canonical text; absent becomes None.
func Native(v value.Value) starlark.Value {
	if v.IsNull() {
		return starlark.None
	}
	switch x := v.Raw().(type) {
	case bool:
		return starlark.Bool(x)
	case int16:
		return starlark.MakeInt(int(x))
	case int32:
		return starlark.MakeInt(int(x))
	case int64:
		return starlark.MakeInt64(x)
	case float32:
		return starlark.Float(x)
	case float64:
		return starlark.Float(x)
	case string:
		return starlark.String(x)
	default:
		return starlark.String(v.String())
	}
}

// GoToStarlark converts a decoded --arg or YAML argument to a Starlark value.
// Scalars the value package understands, such as *apd.Decimal or time.Time,
// become SQL values. Maps become dicts with sorted keys.
func GoToStarlark(v any) (starlark.Value, error) {
	switch x := v.(type) {
	case nil:
		return starlark.None, nil
	case starlark.Value:
		return x, nil
	case value.Value:
		return NewValue(x), nil
	case string:
		return starlark.String(x), nil
	case bool:
		return starlark.Bool(x), nil
	case int:
		return starlark.MakeInt(x), nil
	case int64:
		return starlark.MakeInt64(x), nil
	case float64:
		return starlark.Float(x), nil
	case []string:
		return listOf(len(x), func(i int) any { return x[i] })
	case []any:
		return listOf(len(x), func(i int) any { return x[i] })
	case map[string]any:
		dict := starlark.NewDict(len(x))
		for _, key := range slices.Sorted(maps.Keys(x)) {
			sv, err := GoToStarlark(x[key])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			if err := dict.SetKey(starlark.String(key), sv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	}
	sqlv, err := value.FromGo(v)
	if err != nil {
		return nil, fmt.Errorf("unsupported argument: %w", err)
	}
	return NewValue(sqlv), nil
}

func listOf(n int, at func(int) any) (starlark.Value, error) {
	elems := make([]starlark.Value, n)
	for i := range elems {
		sv, err := GoToStarlark(at(i))
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		elems[i] = sv
	}
	return starlark.NewList(elems), nil
}
