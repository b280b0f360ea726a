// Package types defines the SQL type tags that operator overloads are keyed by.
//
// A Type names the static type of an operand as the compiler sees it. The
// runtime payload for each type lives in pkg/value.
package types

import "strings"

// Type is a SQL operand type.
type Type int

const (
	// Null is the type of an untyped NULL literal. It matches any parameter
	// during overload resolution.
	Null Type = iota
	// Bool is BOOLEAN.
	Bool
	// Short is SHORT / SMALLINT (16-bit).
	Short
	// Int is INT / INTEGER (32-bit).
	Int
	// Bigint is BIGINT (64-bit).
	Bigint
	// Numeric is NUMERIC / DECIMAL (arbitrary precision).
	Numeric
	// Float is FLOAT / REAL (32-bit).
	Float
	// Double is DOUBLE (64-bit).
	Double
	// String is VARCHAR / STRING.
	String
	// Date is DATE.
	Date
	// Time is TIME.
	Time
	// Timestamp is DATETIME / TIMESTAMP without zone.
	Timestamp
	// Datetimetz is DATETIMETZ. It is declared for overload resolution only
	// and has no runtime representation.
	Datetimetz
)

// All lists every type in declaration order.
var All = []Type{Null, Bool, Short, Int, Bigint, Numeric, Float, Double, String, Date, Time, Timestamp, Datetimetz}

var names = map[Type]string{
	Null:       "NULL",
	Bool:       "BOOLEAN",
	Short:      "SHORT",
	Int:        "INT",
	Bigint:     "BIGINT",
	Numeric:    "NUMERIC",
	Float:      "FLOAT",
	Double:     "DOUBLE",
	String:     "STRING",
	Date:       "DATE",
	Time:       "TIME",
	Timestamp:  "DATETIME",
	Datetimetz: "DATETIMETZ",
}

var aliases = map[string]Type{
	"NULL":       Null,
	"BOOL":       Bool,
	"BOOLEAN":    Bool,
	"SHORT":      Short,
	"SMALLINT":   Short,
	"INT":        Int,
	"INTEGER":    Int,
	"BIGINT":     Bigint,
	"NUMERIC":    Numeric,
	"DECIMAL":    Numeric,
	"FLOAT":      Float,
	"REAL":       Float,
	"DOUBLE":     Double,
	"STRING":     String,
	"VARCHAR":    String,
	"CHAR":       String,
	"TEXT":       String,
	"DATE":       Date,
	"TIME":       Time,
	"DATETIME":   Timestamp,
	"TIMESTAMP":  Timestamp,
	"DATETIMETZ": Datetimetz,
}

// String returns the SQL name of the type.
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// Parse converts a SQL type name (case-insensitive, aliases accepted) to a Type.
func Parse(name string) (Type, bool) {
	t, ok := aliases[strings.ToUpper(strings.TrimSpace(name))]
	return t, ok
}

// HasRuntime reports whether values of this type can exist at runtime.
func (t Type) HasRuntime() bool {
	return t != Datetimetz
}

// IsInteger reports whether t is SHORT, INT or BIGINT.
func (t Type) IsInteger() bool {
	return t == Short || t == Int || t == Bigint
}

// IsNumeric reports whether t is any numeric type.
func (t Type) IsNumeric() bool {
	switch t {
	case Short, Int, Bigint, Numeric, Float, Double:
		return true
	default:
		return false
	}
}

// IsTemporal reports whether t is a date/time type, including the reserved zoned one.
func (t Type) IsTemporal() bool {
	switch t {
	case Date, Time, Timestamp, Datetimetz:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler so types render by name in JSON and YAML.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
