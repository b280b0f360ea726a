package op

import (
	"math"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tru  = value.Some(true)
	fls  = value.Some(false)
	unkn = value.None[bool]()
)

func dec(t *testing.T, s string) Numeric {
	t.Helper()
	d, _, err := apd.NewFromString(s)
	require.NoError(t, err)
	return value.Some(d)
}

func TestLogical(t *testing.T) {
	tests := []struct {
		name         string
		l, r         Bool
		and, or, xor Bool
	}{
		{name: "t t", l: tru, r: tru, and: tru, or: tru, xor: fls},
		{name: "t f", l: tru, r: fls, and: fls, or: tru, xor: tru},
		{name: "f f", l: fls, r: fls, and: fls, or: fls, xor: fls},
		{name: "f null", l: fls, r: unkn, and: unkn, or: unkn, xor: unkn},
		{name: "null t", l: unkn, r: tru, and: unkn, or: unkn, xor: unkn},
		{name: "null null", l: unkn, r: unkn, and: unkn, or: unkn, xor: unkn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.and, And(tt.l, tt.r), "and")
			assert.Equal(t, tt.or, Or(tt.l, tt.r), "or")
			assert.Equal(t, tt.xor, Xor(tt.l, tt.r), "xor")
		})
	}

	assert.Equal(t, fls, Not(tru))
	assert.Equal(t, unkn, Not(unkn))
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(value.None[int32]()))
	assert.False(t, IsNull(value.Some[int32](0)))
	assert.False(t, IsNull(value.Some("")))
}

func TestNullPropagation(t *testing.T) {
	five := value.Some[int32](5)
	none := value.None[int32]()
	big := value.Some[int64](5)
	noBig := value.None[int64]()

	propagating := map[string]func() bool{
		"add":     func() bool { return Add(five, none).IsNull() && Add(none, five).IsNull() },
		"sub":     func() bool { return Sub(five, none).IsNull() },
		"mult":    func() bool { return Mult(none, five).IsNull() },
		"div":     func() bool { return Div(five, none).IsNull() },
		"divint":  func() bool { return DivInt(none, five).IsNull() },
		"mod":     func() bool { return Mod(five, none).IsNull() },
		"neg":     func() bool { return Neg(none).IsNull() },
		"eq":      func() bool { return Eq(five, none).IsNull() },
		"lt":      func() bool { return Lt(none, five).IsNull() },
		"between": func() bool { return Between(five, none, five).IsNull() },
		"bitand":  func() bool { return BitAnd(big, noBig).IsNull() },
		"shl":     func() bool { return BitShiftLeft(noBig, big).IsNull() },
		"compli":  func() bool { return BitCompli(none).IsNull() },
		"concat":  func() bool { return Concat(value.NewInt(5), value.Null).IsNull() },
		"neq":     func() bool { return Neq(value.Null, value.NewInt(5)).IsNull() },
		"numeric": func() bool { return AddNumeric(dec(t, "1"), Numeric{}).IsNull() },
		"date":    func() bool { return AddDate(Date{}, value.Some[int32](1)).IsNull() },
		"like":    func() bool { return Like(String{}, "%", String{}).IsNull() },
	}

	for name, check := range propagating {
		t.Run(name, func(t *testing.T) {
			assert.True(t, check())
		})
	}
}

func TestArithmetic_Native(t *testing.T) {
	assert.Equal(t, value.Some[int16](-32768), Add(value.Some[int16](32767), value.Some[int16](1)))
	assert.Equal(t, value.Some[int16](-32768), Neg(value.Some[int16](-32768)))
	assert.Equal(t, value.Some[int32](-3), Div(value.Some[int32](-7), value.Some[int32](2)))
	assert.Equal(t, value.Some[int64](-1), Mod(value.Some[int64](-7), value.Some[int64](2)))
	assert.Equal(t, value.Some[int64](1), Mod(value.Some[int64](7), value.Some[int64](-2)))
	assert.Equal(t, value.Some(3.5), Div(value.Some(7.0), value.Some(2.0)))
	assert.True(t, math.IsInf(Div(value.Some(1.0), value.Some(0.0)).V, 1))
}

func TestArithmetic_IntegerDivideByZero(t *testing.T) {
	assert.Panics(t, func() { DivInt(value.Some[int32](1), value.Some[int32](0)) })

	divide := func() (err error) {
		defer cond.Recover(&err)
		Mod(value.Some[int16](1), value.Some[int16](0))
		return nil
	}
	assert.True(t, cond.IsZeroDivide(divide()))
}

func TestNumeric_Division(t *testing.T) {
	tests := []struct {
		name string
		l, r string
		rnd  Rounding
		want string
	}{
		{name: "seven halves", l: "7", r: "2", rnd: HalfUp, want: "3.5"},
		{name: "exact quotient drops padding", l: "4", r: "2", rnd: HalfUp, want: "2"},
		{name: "keeps dividend scale", l: "7.00", r: "2", rnd: HalfUp, want: "3.50"},
		{name: "zero dividend", l: "0", r: "5", rnd: HalfUp, want: "0"},
		{name: "large exact quotient", l: "700", r: "2", rnd: HalfUp, want: "350"},
		{name: "one third at scale 2", l: "1", r: "3", rnd: AtScale(2), want: "0.33"},
		{name: "two thirds at scale 2", l: "2", r: "3", rnd: AtScale(2), want: "0.67"},
		{name: "half boundary rounds up", l: "1", r: "8", rnd: AtScale(2), want: "0.13"},
		{name: "negative half boundary", l: "-1", r: "8", rnd: AtScale(2), want: "-0.13"},
		{name: "half boundary at scale 0", l: "5", r: "2", rnd: AtScale(0), want: "3"},
		{name: "small quotient", l: "1", r: "300", rnd: AtScale(2), want: "0.00"},
		{name: "large quotient", l: "123456789", r: "0.5", rnd: AtScale(1), want: "246913578.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DivNumericWith(dec(t, tt.l), dec(t, tt.r), tt.rnd)
			require.True(t, got.Valid)
			assert.Equal(t, tt.want, got.V.Text('f'))
		})
	}

	third := DivNumeric(dec(t, "2"), dec(t, "3"))
	assert.Equal(t, "0.66666666666666666666666666666666666667", third.V.Text('f'))
	half := DivNumeric(dec(t, "7"), dec(t, "2"))
	assert.Equal(t, "3.5", Concat(value.NewNumeric(half.V), value.NewString("")).V)
}

func TestNumeric_DivisionRoundingModes(t *testing.T) {
	fixed := func(mode apd.Rounder, scale int32) Rounding {
		return Rounding{Mode: mode, Fixed: true, Scale: scale}
	}

	tests := []struct {
		name string
		l, r string
		rnd  Rounding
		want string
	}{
		{name: "up past a tiny tail", l: "1000001", r: "10000000", rnd: fixed(apd.RoundUp, 1), want: "0.2"},
		{name: "ceiling past a tiny tail", l: "1000001", r: "10000000", rnd: fixed(apd.RoundCeiling, 1), want: "0.2"},
		{name: "ceiling negative", l: "-1000001", r: "10000000", rnd: fixed(apd.RoundCeiling, 1), want: "-0.1"},
		{name: "floor negative tiny tail", l: "-1000001", r: "10000000", rnd: fixed(apd.RoundFloor, 1), want: "-0.2"},
		{name: "floor positive", l: "1999999", r: "10000000", rnd: fixed(apd.RoundFloor, 1), want: "0.1"},
		{name: "down", l: "2", r: "3", rnd: fixed(apd.RoundDown, 2), want: "0.66"},
		{name: "half even above half", l: "1250001", r: "10000000", rnd: fixed(apd.RoundHalfEven, 2), want: "0.13"},
		{name: "half even exact half", l: "1", r: "8", rnd: fixed(apd.RoundHalfEven, 2), want: "0.12"},
		{name: "half down above half", l: "1250001", r: "10000000", rnd: fixed(apd.RoundHalfDown, 2), want: "0.13"},
		{name: "half down exact half", l: "1", r: "8", rnd: fixed(apd.RoundHalfDown, 2), want: "0.12"},
		{name: "half up exact half", l: "1", r: "8", rnd: fixed(apd.RoundHalfUp, 2), want: "0.13"},
		{name: "05up after zero", l: "1000001", r: "10000000", rnd: fixed(apd.Round05Up, 1), want: "0.1"},
		{name: "05up after five", l: "5000001", r: "10000000", rnd: fixed(apd.Round05Up, 1), want: "0.6"},
		{name: "05up kept zero digit", l: "1", r: "30", rnd: fixed(apd.Round05Up, 1), want: "0.1"},
		{name: "exact quotient any mode", l: "1", r: "4", rnd: fixed(apd.RoundUp, 3), want: "0.250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DivNumericWith(dec(t, tt.l), dec(t, tt.r), tt.rnd)
			require.True(t, got.Valid)
			assert.Equal(t, tt.want, got.V.Text('f'))
		})
	}
}

func TestNumeric_DivideByZero(t *testing.T) {
	divide := func() (err error) {
		defer cond.Recover(&err)
		DivNumeric(dec(t, "1"), dec(t, "0"))
		return nil
	}

	err := divide()
	require.Error(t, err)
	assert.True(t, cond.IsZeroDivide(err))

	var ae *ArithmeticError
	assert.ErrorAs(t, err, &ae)
}

func TestNumeric_Exact(t *testing.T) {
	sum := AddNumeric(dec(t, "0.1"), dec(t, "0.2"))
	assert.Equal(t, "0.3", sum.V.Text('f'))

	prod := MultNumeric(dec(t, "1.25"), dec(t, "-4"))
	assert.Equal(t, 0, prod.V.Cmp(apd.New(-5, 0)))

	diff := SubNumeric(dec(t, "10"), dec(t, "0.001"))
	assert.Equal(t, "9.999", diff.V.Text('f'))

	assert.Equal(t, "-2.50", NegNumeric(dec(t, "2.50")).V.Text('f'))
}

func TestComparison(t *testing.T) {
	assert.Equal(t, tru, Lt(value.Some("abc"), value.Some("abd")))
	assert.Equal(t, tru, Lt(value.Some("Z"), value.Some("a")))
	assert.Equal(t, fls, Eq(value.Some(math.NaN()), value.Some(math.NaN())))
	assert.Equal(t, tru, Ge(value.Some[int16](3), value.Some[int16](3)))
	assert.Equal(t, tru, Between(value.Some[int64](5), value.Some[int64](1), value.Some[int64](5)))
	assert.Equal(t, fls, Between(value.Some[int64](6), value.Some[int64](1), value.Some[int64](5)))

	assert.Equal(t, tru, EqNumeric(dec(t, "2.0"), dec(t, "2.00")))
	assert.Equal(t, tru, LtNumeric(dec(t, "-0.5"), dec(t, "0")))
	assert.Equal(t, tru, BetweenNumeric(dec(t, "1.5"), dec(t, "1"), dec(t, "2")))

	d1 := value.Some(value.DateOf(2024, 1, 1))
	d2 := value.Some(value.DateOf(2024, 1, 2))
	assert.Equal(t, tru, LtTemporal(d1, d2))
	assert.Equal(t, fls, EqTemporal(d1, d2))
	assert.Equal(t, tru, BetweenTemporal(d1, d1, d2))

	assert.Equal(t, tru, BetweenBool(tru, fls, tru))
	assert.Equal(t, fls, BetweenBool(fls, tru, tru))
	assert.Equal(t, tru, EqBool(fls, fls))
}

func TestNullSafeEq(t *testing.T) {
	assert.True(t, NullSafeEq(value.Null, value.Null))
	assert.False(t, NullSafeEq(value.Null, value.NewInt(5)))
	assert.True(t, NullSafeEq(value.NewInt(5), value.NewInt(5)))
	assert.True(t, NullSafeEq(value.Absent(types.Int), value.Null))
}

func TestNeq(t *testing.T) {
	assert.Equal(t, tru, Neq(value.NewString("a"), value.NewString("b")))
	assert.Equal(t, fls, Neq(value.NewInt(1), value.NewInt(1)))
}

func TestIn(t *testing.T) {
	list := []value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(3)}

	assert.Equal(t, tru, In(value.NewInt(3), list))
	assert.Equal(t, fls, In(value.NewInt(4), list))
	assert.Equal(t, unkn, In(value.Null, list))
	assert.Equal(t, unkn, In(value.NewInt(3), nil))
	assert.Equal(t, fls, In(value.NewInt(3), []value.Value{}))
	assert.Equal(t, fls, In(value.NewInt(3), []value.Value{value.Null, value.Absent(types.Int)}))
	assert.Equal(t, fls, In(value.NewBigint(3), list))
}

func TestBitwise(t *testing.T) {
	assert.Equal(t, value.Some[int64](-1), BitCompli(value.Some[int16](0)))
	assert.Equal(t, value.Some[int64](^int64(7)), BitCompli(value.Some[int32](7)))
	assert.Equal(t, value.Some[int64](8), BitShiftLeft(value.Some[int64](1), value.Some[int64](3)))
	assert.Equal(t, value.Some[int64](-4), BitShiftRight(value.Some[int64](-8), value.Some[int64](1)))
	assert.Equal(t, value.Some[int64](2), BitShiftLeft(value.Some[int64](1), value.Some[int64](65)))
	assert.Equal(t, value.Some[int64](0b0100), BitAnd(value.Some[int64](0b1100), value.Some[int64](0b0110)))
	assert.Equal(t, value.Some[int64](0b1010), BitXor(value.Some[int64](0b1100), value.Some[int64](0b0110)))
	assert.Equal(t, value.Some[int64](0b1110), BitOr(value.Some[int64](0b1100), value.Some[int64](0b0110)))
}

func TestTemporal_RoundTrip(t *testing.T) {
	d := value.Some(value.DateOf(2024, 2, 27))
	tm := value.Some(value.TimeOf(12, 0, 0, 0))
	ts := value.Some(value.TimestampOf(2024, 2, 27, 12, 0, 0, 0))

	for _, n := range []int32{0, 1, -1, 3, 365, -1000} {
		in := value.Some(n)
		assert.Equal(t, value.Some(int64(n)), DiffDate(AddDate(d, in), d), "date %d", n)
		assert.Equal(t, value.Some(int64(n)), DiffTime(AddTime(tm, in), tm), "time %d", n)
		assert.Equal(t, value.Some(int64(n)), DiffTimestamp(AddTimestamp(ts, in), ts), "timestamp %d", n)
		assert.Equal(t, d, AddDate(SubDate(d, in), in))
	}
}

func TestTemporal_Mixed(t *testing.T) {
	d := value.Some(value.DateOf(2024, 1, 2))
	ts := value.Some(value.TimestampOf(2024, 1, 1, 12, 0, 0, 0))

	assert.Equal(t, value.Some[int64](12*3600*1000), DiffDateTimestamp(d, ts))
	assert.Equal(t, value.Some[int64](-12*3600*1000), DiffTimestampDate(ts, d))

	late := value.Some(value.TimeOf(23, 0, 0, 0))
	assert.Equal(t, value.Some(value.TimeOf(1, 0, 0, 0)), AddTime(late, value.Some[int32](7200)))
	assert.Equal(t, value.Some(value.TimeOf(22, 0, 0, 0)), SubTime(late, value.Some[int32](3600)))
	assert.Equal(t, value.Some(value.TimestampOf(2024, 1, 1, 11, 59, 59, 999_000_000)), SubTimestamp(ts, value.Some[int32](1)))
}

func TestConcat(t *testing.T) {
	assert.Equal(t, value.Some("ab"), Concat(value.NewString("a"), value.NewString("b")))
	assert.Equal(t, value.Some("x1"), Concat(value.NewString("x"), value.NewInt(1)))
	assert.Equal(t, value.Some("1.5true"), Concat(value.NewDouble(1.5), value.NewBool(true)))
	assert.Equal(t, value.Some("2024-01-02 "), Concat(value.NewDate(value.DateOf(2024, 1, 2)), value.NewString(" ")))
}
