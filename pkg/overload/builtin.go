package overload

import (
	"github.com/leapstack-labs/leapsp/pkg/op"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
)

// Type shorthands for the table below.
const (
	tBool   = types.Bool
	tShort  = types.Short
	tInt    = types.Int
	tBigint = types.Bigint
	tNum    = types.Numeric
	tFloat  = types.Float
	tDouble = types.Double
	tString = types.String
	tDate   = types.Date
	tTime   = types.Time
	tTS     = types.Timestamp
	tTZ     = types.Datetimetz
)

func builtin() *Registry {
	b := NewRegistry()

	// Logical
	b.Unary("Not", tBool, tBool, unary(op.Not)).
		Unary("IsNull", Any, tBool, isNull).
		Binary("And", tBool, tBool, tBool, binary(op.And)).
		Binary("Or", tBool, tBool, tBool, binary(op.Or)).
		Binary("Xor", tBool, tBool, tBool, binary(op.Xor))

	// Native numerics
	native[int16](b, tShort)
	native[int32](b, tInt)
	native[int64](b, tBigint)
	native[float32](b, tFloat)
	native[float64](b, tDouble)
	integer[int16](b, tShort)
	integer[int32](b, tInt)
	integer[int64](b, tBigint)
	decimal(b)

	// Other comparable types
	comparison[string](b, tString)
	b.Binary("Eq", tBool, tBool, tBool, binary(op.EqBool)).
		Ternary("Between", tBool, tBool, tBool, tBool, ternary(op.BetweenBool))
	temporal[value.Date](b, tDate)
	temporal[value.Time](b, tTime)
	temporal[value.Timestamp](b, tTS)

	// Date and time arithmetic
	b.Binary("Add", tDate, tInt, tDate, binary(op.AddDate)).
		Binary("Sub", tDate, tInt, tDate, binary(op.SubDate)).
		Binary("Sub", tDate, tDate, tBigint, binary(op.DiffDate)).
		Binary("Add", tTime, tInt, tTime, binary(op.AddTime)).
		Binary("Sub", tTime, tInt, tTime, binary(op.SubTime)).
		Binary("Sub", tTime, tTime, tBigint, binary(op.DiffTime)).
		Binary("Add", tTS, tInt, tTS, binary(op.AddTimestamp)).
		Binary("Sub", tTS, tInt, tTS, binary(op.SubTimestamp)).
		Binary("Sub", tTS, tTS, tBigint, binary(op.DiffTimestamp)).
		Binary("Sub", tDate, tTS, tBigint, binary(op.DiffDateTimestamp)).
		Binary("Sub", tTS, tDate, tBigint, binary(op.DiffTimestampDate))

	// Bitwise
	b.Binary("BitShiftLeft", tBigint, tBigint, tBigint, binary(op.BitShiftLeft)).
		Binary("BitShiftRight", tBigint, tBigint, tBigint, binary(op.BitShiftRight)).
		Binary("BitAnd", tBigint, tBigint, tBigint, binary(op.BitAnd)).
		Binary("BitXor", tBigint, tBigint, tBigint, binary(op.BitXor)).
		Binary("BitOr", tBigint, tBigint, tBigint, binary(op.BitOr))

	// Untyped fallbacks
	b.Binary("NullSafeEq", Any, Any, tBool, nullSafeEq).
		Binary("Neq", Any, Any, tBool, untyped(op.Neq)).
		Variadic("In", []types.Type{Any, Any}, tBool, in).
		Binary("Concat", Any, Any, tString, untyped(op.Concat)).
		Ternary("Like", tString, tString, tString, tBool, like)

	zoned(b)
	return b.Build()
}

// native declares arithmetic and comparison for a type with Go arithmetic.
func native[T op.Number](b *Builder, t types.Type) {
	b.Unary("Neg", t, t, unary(op.Neg[T])).
		Binary("Add", t, t, t, binary(op.Add[T])).
		Binary("Sub", t, t, t, binary(op.Sub[T])).
		Binary("Mult", t, t, t, binary(op.Mult[T])).
		Binary("Div", t, t, t, binary(op.Div[T]))
	comparison[T](b, t)
}

func integer[T op.Integer](b *Builder, t types.Type) {
	b.Binary("DivInt", t, t, t, binary(op.DivInt[T])).
		Binary("Mod", t, t, t, binary(op.Mod[T])).
		Unary("BitCompli", t, tBigint, unary(op.BitCompli[T]))
}

func comparison[T op.Ordered](b *Builder, t types.Type) {
	b.Binary("Eq", t, t, tBool, binary(op.Eq[T])).
		Binary("Le", t, t, tBool, binary(op.Le[T])).
		Binary("Ge", t, t, tBool, binary(op.Ge[T])).
		Binary("Lt", t, t, tBool, binary(op.Lt[T])).
		Binary("Gt", t, t, tBool, binary(op.Gt[T])).
		Ternary("Between", t, t, t, tBool, ternary(op.Between[T]))
}

func temporal[T op.Comparer[T]](b *Builder, t types.Type) {
	b.Binary("Eq", t, t, tBool, binary(op.EqTemporal[T])).
		Binary("Le", t, t, tBool, binary(op.LeTemporal[T])).
		Binary("Ge", t, t, tBool, binary(op.GeTemporal[T])).
		Binary("Lt", t, t, tBool, binary(op.LtTemporal[T])).
		Binary("Gt", t, t, tBool, binary(op.GtTemporal[T])).
		Ternary("Between", t, t, t, tBool, ternary(op.BetweenTemporal[T]))
}

func decimal(b *Builder) {
	b.Unary("Neg", tNum, tNum, unary(op.NegNumeric)).
		Binary("Add", tNum, tNum, tNum, binary(op.AddNumeric)).
		Binary("Sub", tNum, tNum, tNum, binary(op.SubNumeric)).
		Binary("Mult", tNum, tNum, tNum, binary(op.MultNumeric)).
		Binary("Div", tNum, tNum, tNum, binary(op.DivNumeric)).
		Binary("Eq", tNum, tNum, tBool, binary(op.EqNumeric)).
		Binary("Le", tNum, tNum, tBool, binary(op.LeNumeric)).
		Binary("Ge", tNum, tNum, tBool, binary(op.GeNumeric)).
		Binary("Lt", tNum, tNum, tBool, binary(op.LtNumeric)).
		Binary("Gt", tNum, tNum, tBool, binary(op.GtNumeric)).
		Ternary("Between", tNum, tNum, tNum, tBool, ternary(op.BetweenNumeric))
}

// zoned declares the DATETIMETZ signatures. They keep resolution total over
// the type system and have no kernel.
func zoned(b *Builder) {
	for _, name := range []string{"Eq", "Le", "Ge", "Lt", "Gt"} {
		b.Reserved(name, tBool, tTZ, tTZ)
	}
	b.Reserved("Between", tBool, tTZ, tTZ, tTZ).
		Reserved("Add", tTZ, tTZ, tInt).
		Reserved("Sub", tTZ, tTZ, tInt).
		Reserved("Sub", tBigint, tTZ, tTZ).
		Reserved("Sub", tBigint, tDate, tTZ).
		Reserved("Sub", tBigint, tTZ, tDate).
		Reserved("Sub", tBigint, tTS, tTZ).
		Reserved("Sub", tBigint, tTZ, tTS)
}
