// Package op implements SQL operators over nullable operands.
//
// Each function implements one operator for one operand type (or one generic
// family of types). An absent operand makes the result absent, except in
// IsNull, NullSafeEq and In. The functions hold no state and are safe for
// concurrent use.
//
// Integer division by zero is left to the Go runtime and panics with a
// runtime.Error; decimal division by zero panics with an *ArithmeticError,
// which also satisfies runtime.Error. Callers map these with cond.Recover.
package op

import "github.com/leapstack-labs/leapsp/pkg/value"

// Integer is the set of SQL integer payloads: SHORT, INT and BIGINT.
type Integer interface {
	~int16 | ~int32 | ~int64
}

// Float is the set of SQL binary floating-point payloads.
type Float interface {
	~float32 | ~float64
}

// Number is any payload with native arithmetic.
type Number interface {
	Integer | Float
}

// Ordered is any payload with a native total order.
type Ordered interface {
	Number | ~string
}

type (
	// Bool is a nullable BOOLEAN.
	Bool = value.N[bool]
	// Bigint is a nullable BIGINT.
	Bigint = value.N[int64]
	// String is a nullable STRING.
	String = value.N[string]
)

func lift1[A, R any](a value.N[A], f func(A) R) value.N[R] {
	if !a.Valid {
		return value.N[R]{}
	}
	return value.Some(f(a.V))
}

func lift2[A, B, R any](a value.N[A], b value.N[B], f func(A, B) R) value.N[R] {
	if !a.Valid || !b.Valid {
		return value.N[R]{}
	}
	return value.Some(f(a.V, b.V))
}

func lift3[A, B, C, R any](a value.N[A], b value.N[B], c value.N[C], f func(A, B, C) R) value.N[R] {
	if !a.Valid || !b.Valid || !c.Valid {
		return value.N[R]{}
	}
	return value.Some(f(a.V, b.V, c.V))
}
