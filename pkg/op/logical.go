package op

import "github.com/leapstack-labs/leapsp/pkg/value"

// Not is logical negation.
func Not(a Bool) Bool {
	return lift1(a, func(b bool) bool { return !b })
}

// IsNull reports whether a is absent. It is never absent itself.
func IsNull[T any](a value.N[T]) bool {
	return !a.Valid
}

// And is strict conjunction: both operands are already evaluated and an
// absent operand gives an absent result, even when the other is false.
func And(l, r Bool) Bool {
	return lift2(l, r, func(a, b bool) bool { return a && b })
}

// Or is strict disjunction; see And.
func Or(l, r Bool) Bool {
	return lift2(l, r, func(a, b bool) bool { return a || b })
}

// Xor is exclusive or.
func Xor(l, r Bool) Bool {
	return lift2(l, r, func(a, b bool) bool { return a != b })
}
