package value

import (
	"database/sql/driver"
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestN_ZeroIsAbsent(t *testing.T) {
	var n N[int32]
	assert.True(t, n.IsNull())

	zero := Some[int32](0)
	assert.False(t, zero.IsNull())
	v, ok := zero.Get()
	assert.True(t, ok)
	assert.Equal(t, int32(0), v)
}

func TestN_Scan(t *testing.T) {
	var n N[int64]
	require.NoError(t, n.Scan(int64(42)))
	assert.Equal(t, Some[int64](42), n)

	require.NoError(t, n.Scan(nil))
	assert.True(t, n.IsNull())

	var d N[Date]
	require.NoError(t, d.Scan(time.Date(2024, 2, 29, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, DateOf(2024, 2, 29), d.V)
}

func TestN_Value(t *testing.T) {
	got, err := None[string]().Value()
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = Some(DateOf(2024, 1, 2)).Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestValue_Absent(t *testing.T) {
	assert.True(t, Null.IsNull())
	assert.Equal(t, types.Null, Null.Type())

	a := Absent(types.Int)
	assert.True(t, a.IsNull())
	assert.Equal(t, types.Int, a.Type())

	assert.False(t, NewBool(false).IsNull())
	assert.False(t, NewInt(0).IsNull())
	assert.False(t, NewString("").IsNull())
	assert.True(t, NewNumeric(nil).IsNull())
}

func TestWrapAs(t *testing.T) {
	v := Wrap(types.Short, Some[int16](7))
	assert.Equal(t, types.Short, v.Type())

	n, ok := As[int16](v)
	require.True(t, ok)
	assert.Equal(t, Some[int16](7), n)

	_, ok = As[int32](v)
	assert.False(t, ok)

	n, ok = As[int16](Null)
	require.True(t, ok)
	assert.True(t, n.IsNull())
}

func TestEqual(t *testing.T) {
	two, _, _ := apd.NewFromString("2.0")
	twoScaled, _, _ := apd.NewFromString("2.00")

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "both absent", a: Null, b: Absent(types.Int), want: true},
		{name: "absent vs present", a: Null, b: NewInt(5), want: false},
		{name: "same int", a: NewInt(5), b: NewInt(5), want: true},
		{name: "int vs bigint", a: NewInt(5), b: NewBigint(5), want: false},
		{name: "decimal by value", a: NewNumeric(two), b: NewNumeric(twoScaled), want: true},
		{name: "strings", a: NewString("a"), b: NewString("a"), want: true},
		{name: "dates", a: NewDate(DateOf(2024, 1, 1)), b: NewDate(DateOf(2024, 1, 1)), want: true},
		{name: "nan", a: NewDouble(math.NaN()), b: NewDouble(math.NaN()), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestValue_String(t *testing.T) {
	d, _, _ := apd.NewFromString("12.500")

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "null", v: Null, want: "NULL"},
		{name: "bool", v: NewBool(true), want: "true"},
		{name: "short", v: NewShort(-3), want: "-3"},
		{name: "numeric keeps scale", v: NewNumeric(d), want: "12.500"},
		{name: "integral double", v: NewDouble(3), want: "3.0"},
		{name: "fraction float", v: NewFloat(0.1), want: "0.1"},
		{name: "large double", v: NewDouble(1e10), want: "1.0E10"},
		{name: "small double", v: NewDouble(1.5e-5), want: "1.5E-5"},
		{name: "date", v: NewDate(DateOf(2024, 3, 9)), want: "2024-03-09"},
		{name: "time", v: NewTime(TimeOf(7, 5, 3, 0)), want: "07:05:03"},
		{name: "timestamp", v: NewTimestamp(TimestampOf(2024, 3, 9, 7, 5, 3, 120_000_000)), want: "2024-03-09 07:05:03.120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestParseTyped(t *testing.T) {
	tests := []struct {
		in       string
		wantType types.Type
		wantText string
		wantErr  bool
	}{
		{in: "int:42", wantType: types.Int, wantText: "42"},
		{in: "SMALLINT:-1", wantType: types.Short, wantText: "-1"},
		{in: "numeric:1.50", wantType: types.Numeric, wantText: "1.50"},
		{in: "date:2024-01-31", wantType: types.Date, wantText: "2024-01-31"},
		{in: "datetime:2024-01-31 10:11:12", wantType: types.Timestamp, wantText: "2024-01-31 10:11:12.000"},
		{in: "string:a:b", wantType: types.String, wantText: "a:b"},
		{in: "int:null", wantType: types.Int, wantText: "NULL"},
		{in: "NULL", wantType: types.Null, wantText: "NULL"},
		{in: "short:70000", wantErr: true},
		{in: "datetimetz:2024-01-01", wantErr: true},
		{in: "42", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseTyped(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, v.Type())
			assert.Equal(t, tt.wantText, v.String())
		})
	}
}

func TestFromGo(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{name: "nil", in: nil, want: Null},
		{name: "int64", in: int64(9), want: NewBigint(9)},
		{name: "bytes", in: []byte("hi"), want: NewString("hi")},
		{name: "time", in: ts, want: NewTimestamp(TimestampFromTime(ts))},
		{name: "float64", in: 1.5, want: NewDouble(1.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.in)
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %v", got)
			assert.Equal(t, tt.want.Type(), got.Type())
		})
	}

	_, err := FromGo(struct{}{})
	assert.Error(t, err)
}

func TestValue_DriverValue(t *testing.T) {
	d, _, _ := apd.NewFromString("3.14")

	tests := []struct {
		name string
		v    Value
		want driver.Value
	}{
		{name: "absent", v: Absent(types.Int), want: nil},
		{name: "short widens", v: NewShort(2), want: int64(2)},
		{name: "numeric as text", v: NewNumeric(d), want: "3.14"},
		{name: "date as time", v: NewDate(DateOf(2020, 1, 1)), want: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "time as text", v: NewTime(TimeOf(1, 2, 3, 0)), want: "01:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
