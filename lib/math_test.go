package lib

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestCheckedOps(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		op       func(a, b uint64) (uint64, ErrorI)
		a, b     uint64
		expected uint64
		errCode  ErrorCode
	}{
		{name: "add", op: CheckedAdd, a: 2, b: 3, expected: 5},
		{name: "add max", op: CheckedAdd, a: math.MaxUint64 - 1, b: 1, expected: math.MaxUint64},
		{name: "add overflow", op: CheckedAdd, a: math.MaxUint64, b: 1, errCode: CodeArithmeticOverflow},
		{name: "sub", op: CheckedSub, a: 5, b: 3, expected: 2},
		{name: "sub to zero", op: CheckedSub, a: 3, b: 3, expected: 0},
		{name: "sub underflow", detail: "underflow is reported as overflow", op: CheckedSub, a: 3, b: 4, errCode: CodeArithmeticOverflow},
		{name: "mul", op: CheckedMul, a: 1 << 32, b: 1<<32 - 1, expected: (1<<32 - 1) << 32},
		{name: "mul overflow", op: CheckedMul, a: 1 << 32, b: 1 << 32, errCode: CodeArithmeticOverflow},
		{name: "div", op: CheckedDiv, a: 7, b: 2, expected: 3},
		{name: "div by zero", op: CheckedDiv, a: 7, b: 0, errCode: CodeDivisionByZero},
		{name: "ceil div", op: CheckedCeilDiv, a: 7, b: 2, expected: 4},
		{name: "ceil div exact", op: CheckedCeilDiv, a: 8, b: 2, expected: 4},
		{name: "ceil div max", op: CheckedCeilDiv, a: math.MaxUint64, b: 2, expected: 1 << 63},
		{name: "ceil div zero numerator", op: CheckedCeilDiv, a: 0, b: 2, expected: 0},
		{name: "ceil div by zero", op: CheckedCeilDiv, a: 7, b: 0, errCode: CodeDivisionByZero},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.op(test.a, test.b)
			if test.errCode != 0 {
				require.Error(t, err, test.detail)
				require.Equal(t, test.errCode, err.Code())
				require.Equal(t, MathModule, err.Module())
				return
			}
			require.NoError(t, err, test.detail)
			require.Equal(t, test.expected, got)
		})
	}
}

func TestCheckedDivRound(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		a, b     uint64
		round    RoundDirection
		expected uint64
		errCode  ErrorCode
	}{
		{name: "floor", a: 7, b: 2, round: Floor, expected: 3},
		{name: "ceiling", a: 7, b: 2, round: Ceiling, expected: 4},
		{name: "exact ceiling", detail: "no remainder means no round up", a: 8, b: 2, round: Ceiling, expected: 4},
		{name: "ceiling max", a: math.MaxUint64, b: 2, round: Ceiling, expected: 1 << 63},
		{name: "floor by zero", a: 7, round: Floor, errCode: CodeDivisionByZero},
		{name: "ceiling by zero", a: 7, round: Ceiling, errCode: CodeDivisionByZero},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := CheckedDivRound(test.a, test.b, test.round)
			if test.errCode != 0 {
				require.Error(t, err, test.detail)
				require.Equal(t, test.errCode, err.Code())
				return
			}
			require.NoError(t, err, test.detail)
			require.Equal(t, test.expected, got, test.detail)
		})
	}
}

func TestCheckedMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		a, b, d  uint64
		round    RoundDirection
		expected uint64
		errCode  ErrorCode
	}{
		{
			name:     "floor",
			a:        100000,
			b:        25,
			d:        10000,
			round:    Floor,
			expected: 250,
		},
		{
			name:     "floor truncates",
			a:        7,
			b:        3,
			d:        4,
			round:    Floor,
			expected: 5,
		},
		{
			name:     "ceiling rounds up",
			a:        7,
			b:        3,
			d:        4,
			round:    Ceiling,
			expected: 6,
		},
		{
			name:     "ceiling exact",
			a:        8,
			b:        3,
			d:        4,
			round:    Ceiling,
			expected: 6,
		},
		{
			name:     "wide intermediate",
			detail:   "a*b overflows 64 bits but the quotient fits",
			a:        math.MaxUint64,
			b:        math.MaxUint64,
			d:        math.MaxUint64,
			round:    Floor,
			expected: math.MaxUint64,
		},
		{
			name:    "quotient overflow",
			a:       math.MaxUint64,
			b:       2,
			d:       1,
			round:   Floor,
			errCode: CodeArithmeticOverflow,
		},
		{
			name:    "ceiling quotient overflow",
			detail:  "the quotient is one past the maximum",
			a:       math.MaxUint64,
			b:       math.MaxUint64,
			d:       math.MaxUint64 - 1,
			round:   Ceiling,
			errCode: CodeArithmeticOverflow,
		},
		{
			name:    "division by zero",
			a:       1,
			b:       1,
			d:       0,
			round:   Floor,
			errCode: CodeDivisionByZero,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := CheckedMulDiv(test.a, test.b, test.d, test.round)
			if test.errCode != 0 {
				require.Error(t, err, test.detail)
				require.Equal(t, test.errCode, err.Code())
				return
			}
			require.NoError(t, err, test.detail)
			require.Equal(t, test.expected, got)
		})
	}
}

func TestCheckedPow10(t *testing.T) {
	got, err := CheckedPow10(0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), got)
	got, err = CheckedPow10(19)
	require.NoError(t, err)
	require.Equal(t, uint64(10_000_000_000_000_000_000), got)
	_, err = CheckedPow10(20)
	require.Equal(t, CodeArithmeticOverflow, err.Code())
}

func TestWideOps(t *testing.T) {
	maxU256 := new(uint256.Int).SetAllOne()
	// add
	_, err := WideAdd(maxU256, Wide(1))
	require.Equal(t, CodeArithmeticOverflow, err.Code())
	// sub
	_, err = WideSub(Wide(1), Wide(2))
	require.Equal(t, CodeArithmeticOverflow, err.Code())
	// mul
	_, err = WideMul(maxU256, Wide(2))
	require.Equal(t, CodeArithmeticOverflow, err.Code())
	// div
	_, err = WideDiv(Wide(1), Wide(0), Floor)
	require.Equal(t, CodeDivisionByZero, err.Code())
	q, err := WideDiv(Wide(10), Wide(4), Ceiling)
	require.NoError(t, err)
	require.Equal(t, uint64(3), q.Uint64())
	// narrow
	_, err = Narrow(new(uint256.Int).Lsh(Wide(1), 64))
	require.Equal(t, CodeArithmeticOverflow, err.Code())
	n, err := Narrow(Wide(math.MaxUint64))
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), n)
}

func TestRoundDirectionString(t *testing.T) {
	require.Equal(t, "floor", Floor.String())
	require.Equal(t, "ceiling", Ceiling.String())
}
