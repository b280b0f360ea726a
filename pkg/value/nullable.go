package value

import (
	"database/sql"
	"database/sql/driver"
)

// N holds a T that may be absent. The zero N is absent, which keeps SQL NULL
// distinct from the zero value of T.
type N[T any] struct {
	V     T
	Valid bool
}

// Some returns a present N holding v.
func Some[T any](v T) N[T] {
	return N[T]{V: v, Valid: true}
}

// None returns an absent N.
func None[T any]() N[T] {
	return N[T]{}
}

// Get returns the held value and whether it is present.
func (n N[T]) Get() (T, bool) {
	return n.V, n.Valid
}

// IsNull reports whether n is absent.
func (n N[T]) IsNull() bool {
	return !n.Valid
}

// Scan implements sql.Scanner.
func (n *N[T]) Scan(src any) error {
	var s sql.Null[T]
	if err := s.Scan(src); err != nil {
		return err
	}
	n.V, n.Valid = s.V, s.Valid
	return nil
}

// Value implements driver.Valuer.
func (n N[T]) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	if vr, ok := any(n.V).(driver.Valuer); ok {
		return vr.Value()
	}
	return sql.Null[T]{V: n.V, Valid: true}.Value()
}
