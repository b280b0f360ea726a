package op

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
	"github.com/leapstack-labs/leapsp/pkg/value"
)

// Numeric is a nullable NUMERIC.
type Numeric = value.N[*apd.Decimal]

// DefaultPrecision is the number of significant digits kept by NUMERIC
// division when no scale is requested.
const DefaultPrecision = 38

// ArithmeticError is the panic value of a failed NUMERIC operation.
type ArithmeticError struct {
	Op  string
	Err error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("runtime error: numeric %s: %v", e.Op, e.Err)
}

// RuntimeError marks ArithmeticError as a host fault, like integer division by zero.
func (e *ArithmeticError) RuntimeError() {}

func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// Rounding is the rounding contract of NUMERIC division.
type Rounding struct {
	// Mode is the rounding rule. Empty means half-up.
	Mode apd.Rounder

	// Precision is the number of significant digits kept when Fixed is false.
	// Zero means DefaultPrecision.
	Precision uint32

	// Fixed requests exactly Scale digits after the decimal point.
	Fixed bool
	Scale int32
}

// HalfUp rounds half away from zero to DefaultPrecision significant digits.
var HalfUp = Rounding{Mode: apd.RoundHalfUp, Precision: DefaultPrecision}

// AtScale rounds half away from zero to scale digits after the decimal point.
func AtScale(scale int32) Rounding {
	return Rounding{Mode: apd.RoundHalfUp, Fixed: true, Scale: scale}
}

func (r Rounding) mode() apd.Rounder {
	if r.Mode == "" {
		return apd.RoundHalfUp
	}
	return r.Mode
}

// exact has no precision limit; sums, differences and products are never rounded.
var exact = &apd.BaseContext

func mustDecimal(op string, _ apd.Condition, err error) {
	if err != nil {
		panic(&ArithmeticError{Op: op, Err: err})
	}
}

// NegNumeric negates a.
func NegNumeric(a Numeric) Numeric {
	return lift1(a, func(x *apd.Decimal) *apd.Decimal {
		return new(apd.Decimal).Neg(x)
	})
}

// AddNumeric is the exact sum l + r.
func AddNumeric(l, r Numeric) Numeric {
	return lift2(l, r, func(a, b *apd.Decimal) *apd.Decimal {
		d := new(apd.Decimal)
		res, err := exact.Add(d, a, b)
		mustDecimal("addition", res, err)
		return d
	})
}

// SubNumeric is the exact difference l - r.
func SubNumeric(l, r Numeric) Numeric {
	return lift2(l, r, func(a, b *apd.Decimal) *apd.Decimal {
		d := new(apd.Decimal)
		res, err := exact.Sub(d, a, b)
		mustDecimal("subtraction", res, err)
		return d
	})
}

// MultNumeric is the exact product l * r.
func MultNumeric(l, r Numeric) Numeric {
	return lift2(l, r, func(a, b *apd.Decimal) *apd.Decimal {
		d := new(apd.Decimal)
		res, err := exact.Mul(d, a, b)
		mustDecimal("multiplication", res, err)
		return d
	})
}

// DivNumeric is l / r rounded half-up to DefaultPrecision significant digits.
// 7 / 2 is 3.5.
func DivNumeric(l, r Numeric) Numeric {
	return DivNumericWith(l, r, HalfUp)
}

// DivNumericWith is l / r under an explicit rounding contract. A zero
// divisor panics with an *ArithmeticError.
func DivNumericWith(l, r Numeric, rnd Rounding) Numeric {
	return lift2(l, r, func(a, b *apd.Decimal) *apd.Decimal {
		return quo(a, b, rnd)
	})
}

func quo(a, b *apd.Decimal, rnd Rounding) *apd.Decimal {
	if b.IsZero() {
		panic(&ArithmeticError{Op: "division", Err: fmt.Errorf("division by zero")})
	}

	d := new(apd.Decimal)
	if !rnd.Fixed {
		prec := rnd.Precision
		if prec == 0 {
			prec = DefaultPrecision
		}
		ctx := exact.WithPrecision(prec)
		ctx.Rounding = rnd.mode()
		res, err := ctx.Quo(d, a, b)
		mustDecimal("division", res, err)
		if !res.Inexact() {
			trimZeros(d, a.Exponent)
		}
		return d
	}

	// Truncate at a precision past the requested scale, then round once.
	// A nonzero remainder leaves a sticky digit so every mode sees it.
	intDigits := (a.NumDigits() + int64(a.Exponent)) - (b.NumDigits() + int64(b.Exponent)) + 1
	if intDigits < 1 {
		intDigits = 1
	}
	prec := intDigits + int64(rnd.Scale) + 3
	if prec < 1 {
		prec = 1
	}

	trunc := exact.WithPrecision(uint32(prec))
	trunc.Rounding = apd.RoundDown
	res, err := trunc.Quo(d, a, b)
	mustDecimal("division", res, err)
	if res.Inexact() {
		d.Coeff.Mul(&d.Coeff, apd.NewBigInt(10))
		d.Coeff.Add(&d.Coeff, apd.NewBigInt(1))
		d.Exponent--
	}

	q := exact.WithPrecision(uint32(prec + 2))
	q.Rounding = rnd.mode()
	res, err = q.Quantize(d, d, -rnd.Scale)
	mustDecimal("division", res, err)
	return d
}

// trimZeros drops trailing fractional zeros of an exact quotient, keeping at
// least the dividend's scale. 4 / 2 is 2 and 7.00 / 2 is 3.50.
func trimZeros(d *apd.Decimal, dividendExp int32) {
	d.Reduce(d)
	target := dividendExp
	if target > 0 {
		target = 0
	}
	if d.Exponent <= target {
		return
	}
	pad := exact.WithPrecision(uint32(d.NumDigits() + int64(d.Exponent-target)))
	res, err := pad.Quantize(d, d, target)
	mustDecimal("division", res, err)
}

// CompareNumeric orders two decimals by value; 2.0 and 2.00 are equal.
func CompareNumeric(a, b *apd.Decimal) int {
	return a.Cmp(b)
}
