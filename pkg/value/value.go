// Package value defines the runtime representation of SQL operands.
//
// Two shapes are provided. N[T] is the statically typed nullable used by the
// operator functions in pkg/op. Value is a tagged variant carrying a SQL type
// and a payload, used where the operand type is only known at run time
// (overload dispatch, scripts, cursor rows).
package value

import (
	"database/sql/driver"
	"fmt"
	"math/big"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/leapsp/pkg/types"
)

// Value is a SQL operand: a type tag plus a payload. A nil payload is absent.
//
// Payloads by type: Bool bool, Short int16, Int int32, Bigint int64,
// Numeric *apd.Decimal, Float float32, Double float64, String string,
// Date Date, Time Time, Timestamp Timestamp. No constructor produces a
// Datetimetz value.
type Value struct {
	typ types.Type
	v   any
}

// Null is the untyped absent value.
var Null = Value{}

// Absent returns the absent value of type t.
func Absent(t types.Type) Value {
	return Value{typ: t}
}

// NewBool returns a BOOLEAN value.
func NewBool(b bool) Value { return Value{typ: types.Bool, v: b} }

// NewShort returns a SHORT value.
func NewShort(i int16) Value { return Value{typ: types.Short, v: i} }

// NewInt returns an INT value.
func NewInt(i int32) Value { return Value{typ: types.Int, v: i} }

// NewBigint returns a BIGINT value.
func NewBigint(i int64) Value { return Value{typ: types.Bigint, v: i} }

// NewNumeric returns a NUMERIC value. A nil d is absent.
func NewNumeric(d *apd.Decimal) Value {
	if d == nil {
		return Absent(types.Numeric)
	}
	return Value{typ: types.Numeric, v: d}
}

// NewFloat returns a FLOAT value.
func NewFloat(f float32) Value { return Value{typ: types.Float, v: f} }

// NewDouble returns a DOUBLE value.
func NewDouble(f float64) Value { return Value{typ: types.Double, v: f} }

// NewString returns a STRING value.
func NewString(s string) Value { return Value{typ: types.String, v: s} }

// NewDate returns a DATE value.
func NewDate(d Date) Value { return Value{typ: types.Date, v: d} }

// NewTime returns a TIME value.
func NewTime(t Time) Value { return Value{typ: types.Time, v: t} }

// NewTimestamp returns a DATETIME value.
func NewTimestamp(ts Timestamp) Value { return Value{typ: types.Timestamp, v: ts} }

// Type returns the type tag. Null has type types.Null.
func (v Value) Type() types.Type {
	return v.typ
}

// IsNull reports whether v is absent.
func (v Value) IsNull() bool {
	return v.v == nil
}

// Raw returns the payload, or nil when absent.
func (v Value) Raw() any {
	return v.v
}

// Wrap converts a typed nullable into a Value of type t.
func Wrap[T any](t types.Type, n N[T]) Value {
	if !n.Valid {
		return Absent(t)
	}
	return Value{typ: t, v: n.V}
}

// As extracts the payload of v as an N[T]. It reports false when v is present
// but its payload is not a T.
func As[T any](v Value) (N[T], bool) {
	if v.v == nil {
		return N[T]{}, true
	}
	x, ok := v.v.(T)
	if !ok {
		return N[T]{}, false
	}
	return Some(x), true
}

// Equal reports structural equality. Two absent values are equal; values of
// different types never are. Numerics compare by value, so 2.0 equals 2.00.
func Equal(a, b Value) bool {
	if a.v == nil || b.v == nil {
		return a.v == nil && b.v == nil
	}
	if a.typ != b.typ {
		return false
	}
	switch x := a.v.(type) {
	case *apd.Decimal:
		return x.Cmp(b.v.(*apd.Decimal)) == 0
	case Date:
		return x.Compare(b.v.(Date)) == 0
	case Time:
		return x.Compare(b.v.(Time)) == 0
	case Timestamp:
		return x.Compare(b.v.(Timestamp)) == 0
	default:
		return a.v == b.v
	}
}

// Value implements driver.Valuer so a Value can be bound as a query parameter.
func (v Value) Value() (driver.Value, error) {
	switch x := v.v.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return x, nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case float32:
		return float64(x), nil
	case *apd.Decimal:
		return x.Text('f'), nil
	case driver.Valuer:
		return x.Value()
	default:
		return nil, fmt.Errorf("value of type %s has no driver representation", v.typ)
	}
}

// FromGo converts a Go or driver value to a Value. nil becomes Null.
func FromGo(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null, nil
	case Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case int16:
		return NewShort(v), nil
	case int32:
		return NewInt(v), nil
	case int64:
		return NewBigint(v), nil
	case int:
		return NewBigint(int64(v)), nil
	case int8:
		return NewShort(int16(v)), nil
	case uint8:
		return NewShort(int16(v)), nil
	case uint16:
		return NewInt(int32(v)), nil
	case uint32:
		return NewBigint(int64(v)), nil
	case float32:
		return NewFloat(v), nil
	case float64:
		return NewDouble(v), nil
	case string:
		return NewString(v), nil
	case []byte:
		return NewString(string(v)), nil
	case *apd.Decimal:
		return NewNumeric(v), nil
	case apd.Decimal:
		return NewNumeric(new(apd.Decimal).Set(&v)), nil
	case *big.Int:
		return NewNumeric(apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(v), 0)), nil
	case Date:
		return NewDate(v), nil
	case Time:
		return NewTime(v), nil
	case Timestamp:
		return NewTimestamp(v), nil
	case time.Time:
		return NewTimestamp(TimestampFromTime(v)), nil
	default:
		return Null, fmt.Errorf("unsupported value type %T", x)
	}
}

// ToGo returns the payload as a plain Go value: nil when absent, and
// time.Time for Date and Timestamp.
func ToGo(v Value) any {
	switch x := v.v.(type) {
	case Date:
		return x.Time()
	case Timestamp:
		return x.Time()
	default:
		return x
	}
}
