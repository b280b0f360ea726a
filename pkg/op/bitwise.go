package op

import "github.com/leapstack-labs/leapsp/pkg/value"

// BitCompli is the bitwise complement of a, widened to BIGINT first.
func BitCompli[T Integer](a value.N[T]) Bigint {
	return lift1(a, func(x T) int64 { return ^int64(x) })
}

// BitShiftLeft shifts l left by the low six bits of r.
func BitShiftLeft(l, r Bigint) Bigint {
	return lift2(l, r, func(a, b int64) int64 { return a << (uint64(b) & 63) })
}

// BitShiftRight is an arithmetic right shift of l by the low six bits of r.
func BitShiftRight(l, r Bigint) Bigint {
	return lift2(l, r, func(a, b int64) int64 { return a >> (uint64(b) & 63) })
}

// BitAnd is l & r.
func BitAnd(l, r Bigint) Bigint {
	return lift2(l, r, func(a, b int64) int64 { return a & b })
}

// BitXor is l ^ r.
func BitXor(l, r Bigint) Bigint {
	return lift2(l, r, func(a, b int64) int64 { return a ^ b })
}

// BitOr is l | r.
func BitOr(l, r Bigint) Bigint {
	return lift2(l, r, func(a, b int64) int64 { return a | b })
}
