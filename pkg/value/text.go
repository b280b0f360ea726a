package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/leapsp/pkg/types"
)

// NullText is the text rendering of an absent value.
const NullText = "NULL"

// String returns the canonical text of v. This is the form used by
// concatenation and line output. Absent values render as NULL.
func (v Value) String() string {
	switch x := v.v.(type) {
	case nil:
		return NullText
	case bool:
		return strconv.FormatBool(x)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return FormatFloat(float64(x), 32)
	case float64:
		return FormatFloat(x, 64)
	case *apd.Decimal:
		return x.Text('f')
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// FormatFloat renders f the way SQL procedure output expects: integral values
// keep a ".0", very large or small magnitudes use an E exponent.
func FormatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, bitSize)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, bitSize)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-")
	exp = strings.TrimLeft(exp, "0")
	if neg {
		exp = "-" + exp
	}
	return mant + "E" + exp
}

// ParseNumeric parses a decimal literal.
func ParseNumeric(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid numeric %q: %w", s, err)
	}
	return d, nil
}

// Parse reads text as a value of type t. The word NULL (any case) gives the
// absent value of t.
func Parse(t types.Type, text string) (Value, error) {
	if strings.EqualFold(strings.TrimSpace(text), NullText) {
		return Absent(t), nil
	}

	switch t {
	case types.Null:
		return Null, fmt.Errorf("only NULL is a valid %s literal", t)
	case types.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Null, fmt.Errorf("invalid boolean %q", text)
		}
		return NewBool(b), nil
	case types.Short:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 16)
		if err != nil {
			return Null, fmt.Errorf("invalid short %q: %w", text, err)
		}
		return NewShort(int16(i)), nil
	case types.Int:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return Null, fmt.Errorf("invalid int %q: %w", text, err)
		}
		return NewInt(int32(i)), nil
	case types.Bigint:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return Null, fmt.Errorf("invalid bigint %q: %w", text, err)
		}
		return NewBigint(i), nil
	case types.Numeric:
		d, err := ParseNumeric(text)
		if err != nil {
			return Null, err
		}
		return NewNumeric(d), nil
	case types.Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return Null, fmt.Errorf("invalid float %q: %w", text, err)
		}
		return NewFloat(float32(f)), nil
	case types.Double:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Null, fmt.Errorf("invalid double %q: %w", text, err)
		}
		return NewDouble(f), nil
	case types.String:
		return NewString(text), nil
	case types.Date:
		d, err := ParseDate(text)
		if err != nil {
			return Null, err
		}
		return NewDate(d), nil
	case types.Time:
		tm, err := ParseTime(text)
		if err != nil {
			return Null, err
		}
		return NewTime(tm), nil
	case types.Timestamp:
		ts, err := ParseTimestamp(text)
		if err != nil {
			return Null, err
		}
		return NewTimestamp(ts), nil
	default:
		return Null, fmt.Errorf("type %s has no runtime values", t)
	}
}

// ParseTyped reads "TYPE:text", e.g. "int:3" or "date:2024-01-31". A bare
// NULL gives Null.
func ParseTyped(s string) (Value, error) {
	if strings.EqualFold(strings.TrimSpace(s), NullText) {
		return Null, nil
	}
	name, text, ok := strings.Cut(s, ":")
	if !ok {
		return Null, fmt.Errorf("expected TYPE:VALUE, got %q", s)
	}
	t, ok := types.Parse(name)
	if !ok {
		return Null, fmt.Errorf("unknown type %q", name)
	}
	return Parse(t, text)
}
