package lib

import (
	"math/bits"

	"github.com/holiman/uint256"
)

/*
	This file implements the checked arithmetic kernel.
	Every operation over token magnitudes returns an error instead of wrapping, truncating or panicking.
	Products are widened to 256 bits before any division so a*b never silently loses bits.
*/

// RoundDirection declares how a non-exact division resolves
type RoundDirection uint8

const (
	Floor   RoundDirection = iota // toward zero
	Ceiling                       // away from zero
)

func (r RoundDirection) String() string {
	if r == Ceiling {
		return "ceiling"
	}
	return "floor"
}

// CheckedAdd() returns a + b or ArithmeticOverflow
func CheckedAdd(a, b uint64) (uint64, ErrorI) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow("add")
	}
	return sum, nil
}

// CheckedSub() returns a - b or ArithmeticOverflow on underflow
func CheckedSub(a, b uint64) (uint64, ErrorI) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrArithmeticOverflow("sub")
	}
	return diff, nil
}

// CheckedMul() returns a * b or ArithmeticOverflow
func CheckedMul(a, b uint64) (uint64, ErrorI) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrArithmeticOverflow("mul")
	}
	return lo, nil
}

// CheckedDiv() returns floor(a / b) or DivisionByZero
func CheckedDiv(a, b uint64) (uint64, ErrorI) {
	if b == 0 {
		return 0, ErrDivisionByZero()
	}
	return a / b, nil
}

// CheckedCeilDiv() returns ceil(a / b) or DivisionByZero
func CheckedCeilDiv(a, b uint64) (uint64, ErrorI) {
	if b == 0 {
		return 0, ErrDivisionByZero()
	}
	q, r := bits.Div64(0, a, b)
	if r != 0 {
		q++ // q < a when r != 0 so this can't wrap
	}
	return q, nil
}

// CheckedDivRound() divides with the declared rounding
func CheckedDivRound(a, b uint64, round RoundDirection) (uint64, ErrorI) {
	if round == Ceiling {
		return CheckedCeilDiv(a, b)
	}
	return CheckedDiv(a, b)
}

// CheckedMulDiv() returns a*b/denom with the declared rounding, using a widened intermediate product
func CheckedMulDiv(a, b, denom uint64, round RoundDirection) (uint64, ErrorI) {
	if denom == 0 {
		return 0, ErrDivisionByZero()
	}
	q, err := WideMulDiv(Wide(a), Wide(b), Wide(denom), round)
	if err != nil {
		return 0, err
	}
	return Narrow(q)
}

// CheckedPow10() returns 10^exp or ArithmeticOverflow when it doesn't fit 64 bits
func CheckedPow10(exp uint8) (uint64, ErrorI) {
	result := uint64(1)
	for i := uint8(0); i < exp; i++ {
		var err ErrorI
		if result, err = CheckedMul(result, 10); err != nil {
			return 0, err
		}
	}
	return result, nil
}

// WIDE (256 BIT) OPERATIONS BELOW

// Wide() lifts a 64 bit magnitude into a 256 bit integer
func Wide(a uint64) *uint256.Int { return uint256.NewInt(a) }

// Narrow() converts a 256 bit integer back to 64 bits or returns ArithmeticOverflow
func Narrow(x *uint256.Int) (uint64, ErrorI) {
	if !x.IsUint64() {
		return 0, ErrArithmeticOverflow("narrow")
	}
	return x.Uint64(), nil
}

// WideAdd() returns x + y or ArithmeticOverflow past 256 bits
func WideAdd(x, y *uint256.Int) (*uint256.Int, ErrorI) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow("wide add")
	}
	return z, nil
}

// WideSub() returns x - y or ArithmeticOverflow on underflow
func WideSub(x, y *uint256.Int) (*uint256.Int, ErrorI) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrArithmeticOverflow("wide sub")
	}
	return z, nil
}

// WideMul() returns x * y or ArithmeticOverflow past 256 bits
func WideMul(x, y *uint256.Int) (*uint256.Int, ErrorI) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow("wide mul")
	}
	return z, nil
}

// WideDiv() returns x / y with the declared rounding or DivisionByZero
func WideDiv(x, y *uint256.Int, round RoundDirection) (*uint256.Int, ErrorI) {
	if y.IsZero() {
		return nil, ErrDivisionByZero()
	}
	q, r := new(uint256.Int).DivMod(x, y, new(uint256.Int))
	if round == Ceiling && !r.IsZero() {
		// q < x whenever the remainder is non-zero so this can't overflow
		q.AddUint64(q, 1)
	}
	return q, nil
}

// WideMulDiv() returns x*y/d with the declared rounding
func WideMulDiv(x, y, d *uint256.Int, round RoundDirection) (*uint256.Int, ErrorI) {
	p, err := WideMul(x, y)
	if err != nil {
		return nil, err
	}
	return WideDiv(p, d, round)
}
