package op

import "github.com/leapstack-labs/leapsp/pkg/value"

// Concat is l || r over the canonical text of each operand.
func Concat(l, r value.Value) String {
	if l.IsNull() || r.IsNull() {
		return String{}
	}
	return value.Some(l.String() + r.String())
}
