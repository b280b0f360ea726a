package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Type
		ok   bool
	}{
		{name: "canonical", in: "BIGINT", want: Bigint, ok: true},
		{name: "lowercase alias", in: "smallint", want: Short, ok: true},
		{name: "decimal alias", in: "Decimal", want: Numeric, ok: true},
		{name: "timestamp alias", in: "timestamp", want: Timestamp, ok: true},
		{name: "padded", in: "  varchar ", want: String, ok: true},
		{name: "reserved zoned", in: "datetimetz", want: Datetimetz, ok: true},
		{name: "unknown", in: "SET", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestType_String(t *testing.T) {
	for _, typ := range All {
		parsed, ok := Parse(typ.String())
		assert.True(t, ok, "name of %d should parse", typ)
		assert.Equal(t, typ, parsed)
	}
	assert.Equal(t, "UNKNOWN", Type(99).String())
}

func TestType_Classification(t *testing.T) {
	assert.False(t, Datetimetz.HasRuntime())
	assert.True(t, Timestamp.HasRuntime())

	assert.True(t, Short.IsInteger())
	assert.False(t, Numeric.IsInteger())

	assert.True(t, Numeric.IsNumeric())
	assert.True(t, Float.IsNumeric())
	assert.False(t, String.IsNumeric())

	assert.True(t, Datetimetz.IsTemporal())
	assert.False(t, Bigint.IsTemporal())
}
