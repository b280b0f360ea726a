package overload

import (
	"fmt"

	"github.com/leapstack-labs/leapsp/pkg/op"
	"github.com/leapstack-labs/leapsp/pkg/types"
	"github.com/leapstack-labs/leapsp/pkg/value"
)

func arg[T any](args []value.Value, i int) (value.N[T], error) {
	n, ok := value.As[T](args[i])
	if !ok {
		var zero T
		return n, fmt.Errorf("argument %d: payload %T is not %T", i+1, args[i].Raw(), zero)
	}
	return n, nil
}

func unary[A, R any](f func(value.N[A]) value.N[R]) Func {
	return func(ret types.Type, args []value.Value) (value.Value, error) {
		a, err := arg[A](args, 0)
		if err != nil {
			return value.Null, err
		}
		return value.Wrap(ret, f(a)), nil
	}
}

func binary[A, B, R any](f func(value.N[A], value.N[B]) value.N[R]) Func {
	return func(ret types.Type, args []value.Value) (value.Value, error) {
		a, err := arg[A](args, 0)
		if err != nil {
			return value.Null, err
		}
		b, err := arg[B](args, 1)
		if err != nil {
			return value.Null, err
		}
		return value.Wrap(ret, f(a, b)), nil
	}
}

func ternary[A, B, C, R any](f func(value.N[A], value.N[B], value.N[C]) value.N[R]) Func {
	return func(ret types.Type, args []value.Value) (value.Value, error) {
		a, err := arg[A](args, 0)
		if err != nil {
			return value.Null, err
		}
		b, err := arg[B](args, 1)
		if err != nil {
			return value.Null, err
		}
		c, err := arg[C](args, 2)
		if err != nil {
			return value.Null, err
		}
		return value.Wrap(ret, f(a, b, c)), nil
	}
}

// untyped adapts an operator that works on tagged values directly.
func untyped[R any](f func(l, r value.Value) value.N[R]) Func {
	return func(ret types.Type, args []value.Value) (value.Value, error) {
		return value.Wrap(ret, f(args[0], args[1])), nil
	}
}

func isNull(ret types.Type, args []value.Value) (value.Value, error) {
	return value.Wrap(ret, value.Some(args[0].IsNull())), nil
}

func nullSafeEq(ret types.Type, args []value.Value) (value.Value, error) {
	return value.Wrap(ret, value.Some(op.NullSafeEq(args[0], args[1]))), nil
}

func in(ret types.Type, args []value.Value) (value.Value, error) {
	return value.Wrap(ret, op.In(args[0], args[1:])), nil
}

func like(ret types.Type, args []value.Value) (value.Value, error) {
	return value.Wrap(ret, op.LikeValue(args[0], args[1], args[2])), nil
}
