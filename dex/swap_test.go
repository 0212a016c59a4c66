package dex

import (
	"math"
	"testing"

	"github.com/canopy-network/canopy-amm/lib"
	"github.com/stretchr/testify/require"
)

var defaultTestFees = FeeConfig{
	TradeFee:      Fee{25, 10000},
	OwnerTradeFee: Fee{5, 10000},
	HostFee:       Fee{20, 100},
}

func TestComputeSwap(t *testing.T) {
	tests := []struct {
		name                   string
		detail                 string
		sourceAmount           uint64
		swapSourceReserve      uint64
		swapDestinationReserve uint64
		direction              TradeDirection
		curve                  Curve
		fees                   FeeConfig
		expected               SwapResult
		errCode                lib.ErrorCode
	}{
		{
			name:                   "constant product",
			detail:                 "fees of 250 and 50 leave 99700 for the curve",
			sourceAmount:           100_000,
			swapSourceReserve:      1_000_000,
			swapDestinationReserve: 1_000_000,
			direction:              AtoB,
			curve:                  ConstantProductCurve{},
			fees:                   defaultTestFees,
			expected: SwapResult{
				NewSourceReserve:         1_100_000,
				NewDestinationReserve:    909_339,
				SourceAmountSwapped:      100_000,
				DestinationAmountSwapped: 90_661,
				TradeFee:                 250,
				OwnerFee:                 50,
				HostFee:                  10,
			},
		},
		{
			name:                   "zero source amount",
			detail:                 "the reserves are returned unchanged",
			swapSourceReserve:      1_000_000,
			swapDestinationReserve: 2_000_000,
			direction:              BtoA,
			curve:                  ConstantProductCurve{},
			fees:                   defaultTestFees,
			expected:               SwapResult{NewSourceReserve: 1_000_000, NewDestinationReserve: 2_000_000},
		},
		{
			name:                   "constant price keeps the unspent remainder",
			detail:                 "11 a buys 5 b at price 2, 1 a is never taken",
			sourceAmount:           11,
			swapSourceReserve:      1_000,
			swapDestinationReserve: 1_000,
			direction:              AtoB,
			curve:                  ConstantPriceCurve{TokenBPrice: 2},
			expected: SwapResult{
				NewSourceReserve:         1_010,
				NewDestinationReserve:    995,
				SourceAmountSwapped:      10,
				DestinationAmountSwapped: 5,
			},
		},
		{
			name:                   "reserves near the maximum",
			detail:                 "the new source reserve does not fit 64 bits",
			sourceAmount:           1_000,
			swapSourceReserve:      math.MaxUint64 - 10,
			swapDestinationReserve: math.MaxUint64 - 10,
			direction:              AtoB,
			curve:                  ConstantProductCurve{},
			fees:                   defaultTestFees,
			errCode:                lib.CodeArithmeticOverflow,
		},
		{
			name:                   "maximum source amount",
			sourceAmount:           math.MaxUint64,
			swapSourceReserve:      1_000_000,
			swapDestinationReserve: 1_000_000,
			direction:              AtoB,
			curve:                  ConstantProductCurve{},
			errCode:                lib.CodeArithmeticOverflow,
		},
		{
			name:                   "empty pool",
			sourceAmount:           100,
			swapDestinationReserve: 1_000_000,
			direction:              AtoB,
			curve:                  ConstantProductCurve{},
			fees:                   defaultTestFees,
			errCode:                lib.CodeInsufficientLiquidity,
		},
		{
			name:                   "nil curve",
			sourceAmount:           100,
			swapSourceReserve:      1_000_000,
			swapDestinationReserve: 1_000_000,
			direction:              AtoB,
			errCode:                lib.CodeUnknownCurveType,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ComputeSwap(test.sourceAmount, test.swapSourceReserve, test.swapDestinationReserve, test.direction, test.curve, test.fees)
			if test.errCode != 0 {
				require.Error(t, err, test.detail)
				require.Equal(t, test.errCode, err.Code(), test.detail)
				return
			}
			require.NoError(t, err, test.detail)
			require.Equal(t, test.expected, got, test.detail)
		})
	}
}

func TestComputeSwapNeverShrinksThePool(t *testing.T) {
	curves := []Curve{
		ConstantProductCurve{},
		ConstantPriceCurve{TokenBPrice: 3},
		OffsetCurve{TokenBOffset: 500_000},
		StableCurve{Amp: 100, TokenAFactor: 1, TokenBFactor: 1},
	}
	amounts := []uint64{1, 399, 10_000, 250_000}
	for _, curve := range curves {
		for _, direction := range []TradeDirection{AtoB, BtoA} {
			t.Run(string(curve.Type())+"/"+direction.String(), func(t *testing.T) {
				const reserveA, reserveB = uint64(2_000_000), uint64(1_500_000)
				before, err := NormalizedValue(reserveA, reserveB, curve)
				require.NoError(t, err)
				for _, amount := range amounts {
					src, dst := reserveA, reserveB
					if direction == BtoA {
						src, dst = dst, src
					}
					got, err := ComputeSwap(amount, src, dst, direction, curve, defaultTestFees)
					require.NoError(t, err, "amount %d", amount)
					// fee conservation
					require.LessOrEqual(t, got.SourceAmountSwapped, amount)
					require.Equal(t, got.NewSourceReserve-src, got.SourceAmountSwapped)
					require.Equal(t, dst-got.NewDestinationReserve, got.DestinationAmountSwapped)
					require.LessOrEqual(t, got.HostFee, got.OwnerFee)
					newA, newB := got.NewSourceReserve, got.NewDestinationReserve
					if direction == BtoA {
						newA, newB = newB, newA
					}
					after, err := NormalizedValue(newA, newB, curve)
					require.NoError(t, err)
					// stable D is exact to one unit
					require.GreaterOrEqual(t, after+1, before, "amount %d", amount)
				}
			})
		}
	}
}

func TestComputeSwapRoundTrip(t *testing.T) {
	curves := []Curve{
		ConstantProductCurve{},
		OffsetCurve{TokenBOffset: 1_000_000},
		StableCurve{Amp: 100, TokenAFactor: 1, TokenBFactor: 1},
	}
	for _, curve := range curves {
		t.Run(string(curve.Type()), func(t *testing.T) {
			for _, fees := range []FeeConfig{{}, defaultTestFees} {
				const amount = uint64(50_000)
				out, err := ComputeSwap(amount, 1_000_000, 1_000_000, AtoB, curve, fees)
				require.NoError(t, err)
				back, err := ComputeSwap(out.DestinationAmountSwapped, out.NewDestinationReserve, out.NewSourceReserve, BtoA, curve, fees)
				require.NoError(t, err)
				// a trader can't profit from trading back and forth
				require.LessOrEqual(t, back.DestinationAmountSwapped, amount)
			}
		})
	}
}
