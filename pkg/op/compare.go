package op

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/leapsp/pkg/value"
)

// Eq is l = r for types with a native order. Floating-point operands use
// IEEE 754 equality, so NaN is not equal to itself.
func Eq[T Ordered](l, r value.N[T]) Bool {
	return lift2(l, r, func(a, b T) bool { return a == b })
}

// Le is l <= r. Strings compare by code point.
func Le[T Ordered](l, r value.N[T]) Bool {
	return lift2(l, r, func(a, b T) bool { return a <= b })
}

// Ge is l >= r.
func Ge[T Ordered](l, r value.N[T]) Bool {
	return lift2(l, r, func(a, b T) bool { return a >= b })
}

// Lt is l < r.
func Lt[T Ordered](l, r value.N[T]) Bool {
	return lift2(l, r, func(a, b T) bool { return a < b })
}

// Gt is l > r.
func Gt[T Ordered](l, r value.N[T]) Bool {
	return lift2(l, r, func(a, b T) bool { return a > b })
}

// Between is lower <= o <= upper.
func Between[T Ordered](o, lower, upper value.N[T]) Bool {
	return lift3(o, lower, upper, func(x, lo, hi T) bool { return x >= lo && x <= hi })
}

// Comparer is a payload that orders itself: DATE, TIME and DATETIME.
type Comparer[T any] interface {
	Compare(T) int
}

func compareBy[T any](l, r value.N[T], cmp func(a, b T) int, test func(int) bool) Bool {
	return lift2(l, r, func(a, b T) bool { return test(cmp(a, b)) })
}

func self[T Comparer[T]](a, b T) int { return a.Compare(b) }

func isEq(c int) bool { return c == 0 }
func isLe(c int) bool { return c <= 0 }
func isGe(c int) bool { return c >= 0 }
func isLt(c int) bool { return c < 0 }
func isGt(c int) bool { return c > 0 }

// EqTemporal is l = r for DATE, TIME or DATETIME.
func EqTemporal[T Comparer[T]](l, r value.N[T]) Bool { return compareBy(l, r, self[T], isEq) }

// LeTemporal is l <= r.
func LeTemporal[T Comparer[T]](l, r value.N[T]) Bool { return compareBy(l, r, self[T], isLe) }

// GeTemporal is l >= r.
func GeTemporal[T Comparer[T]](l, r value.N[T]) Bool { return compareBy(l, r, self[T], isGe) }

// LtTemporal is l < r.
func LtTemporal[T Comparer[T]](l, r value.N[T]) Bool { return compareBy(l, r, self[T], isLt) }

// GtTemporal is l > r.
func GtTemporal[T Comparer[T]](l, r value.N[T]) Bool { return compareBy(l, r, self[T], isGt) }

// BetweenTemporal is lower <= o <= upper.
func BetweenTemporal[T Comparer[T]](o, lower, upper value.N[T]) Bool {
	return lift3(o, lower, upper, func(x, lo, hi T) bool { return x.Compare(lo) >= 0 && x.Compare(hi) <= 0 })
}

// EqNumeric is l = r by value.
func EqNumeric(l, r Numeric) Bool { return compareBy(l, r, CompareNumeric, isEq) }

// LeNumeric is l <= r.
func LeNumeric(l, r Numeric) Bool { return compareBy(l, r, CompareNumeric, isLe) }

// GeNumeric is l >= r.
func GeNumeric(l, r Numeric) Bool { return compareBy(l, r, CompareNumeric, isGe) }

// LtNumeric is l < r.
func LtNumeric(l, r Numeric) Bool { return compareBy(l, r, CompareNumeric, isLt) }

// GtNumeric is l > r.
func GtNumeric(l, r Numeric) Bool { return compareBy(l, r, CompareNumeric, isGt) }

// BetweenNumeric is lower <= o <= upper.
func BetweenNumeric(o, lower, upper Numeric) Bool {
	return lift3(o, lower, upper, func(x, lo, hi *apd.Decimal) bool {
		return CompareNumeric(x, lo) >= 0 && CompareNumeric(x, hi) <= 0
	})
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// EqBool is l = r.
func EqBool(l, r Bool) Bool { return compareBy(l, r, compareBool, isEq) }

// BetweenBool is lower <= o <= upper with false < true.
func BetweenBool(o, lower, upper Bool) Bool {
	return lift3(o, lower, upper, func(x, lo, hi bool) bool {
		return compareBool(x, lo) >= 0 && compareBool(x, hi) <= 0
	})
}

// NullSafeEq is the <=> operator: two absent values are equal, absent and
// present are not, and present values compare structurally.
func NullSafeEq(l, r value.Value) bool {
	return value.Equal(l, r)
}

// Neq is l <> r under structural equality.
func Neq(l, r value.Value) Bool {
	if l.IsNull() || r.IsNull() {
		return Bool{}
	}
	return value.Some(!value.Equal(l, r))
}

// In reports whether needle is structurally equal to an element of list.
// A nil list stands for an absent collection and gives an absent result;
// absent elements are skipped.
func In(needle value.Value, list []value.Value) Bool {
	if needle.IsNull() || list == nil {
		return Bool{}
	}
	for _, c := range list {
		if c.IsNull() {
			continue
		}
		if value.Equal(needle, c) {
			return value.Some(true)
		}
	}
	return value.Some(false)
}
