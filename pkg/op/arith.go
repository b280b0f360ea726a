package op

import "github.com/leapstack-labs/leapsp/pkg/value"

// Neg negates a. SHORT, INT and BIGINT wrap at their width.
func Neg[T Number](a value.N[T]) value.N[T] {
	return lift1(a, func(x T) T { return -x })
}

// Add is l + r in the native arithmetic of T.
func Add[T Number](l, r value.N[T]) value.N[T] {
	return lift2(l, r, func(a, b T) T { return a + b })
}

// Sub is l - r.
func Sub[T Number](l, r value.N[T]) value.N[T] {
	return lift2(l, r, func(a, b T) T { return a - b })
}

// Mult is l * r.
func Mult[T Number](l, r value.N[T]) value.N[T] {
	return lift2(l, r, func(a, b T) T { return a * b })
}

// Div is l / r. Integer operands truncate toward zero and panic on a zero
// divisor; floating-point operands follow IEEE 754.
func Div[T Number](l, r value.N[T]) value.N[T] {
	return lift2(l, r, func(a, b T) T { return a / b })
}

// DivInt is integer division (DIV), truncating toward zero.
func DivInt[T Integer](l, r value.N[T]) value.N[T] {
	return lift2(l, r, func(a, b T) T { return a / b })
}

// Mod is the remainder of truncated division; its sign follows l.
func Mod[T Integer](l, r value.N[T]) value.N[T] {
	return lift2(l, r, func(a, b T) T { return a % b })
}
