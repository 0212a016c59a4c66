package dex

import (
	"testing"

	"github.com/canopy-network/canopy-amm/lib"
	"github.com/stretchr/testify/require"
)

func TestSpotPrice(t *testing.T) {
	stable := StableCurve{Amp: 100, TokenAFactor: 1, TokenBFactor: 1}
	scaled, err := NewStableCurve(100, 6, 9)
	require.NoError(t, err)
	tests := []struct {
		name                   string
		detail                 string
		curve                  Curve
		direction              TradeDirection
		swapSourceReserve      uint64
		swapDestinationReserve uint64
		expected               string
		errCode                lib.ErrorCode
	}{
		{name: "constant product", curve: ConstantProductCurve{}, swapSourceReserve: 1_000_000, swapDestinationReserve: 2_000_000, expected: "2"},
		{name: "constant product repeating", curve: ConstantProductCurve{}, swapSourceReserve: 3, swapDestinationReserve: 1, expected: "0.333333333333333333"},
		{name: "constant product empty", curve: ConstantProductCurve{}, swapDestinationReserve: 1, errCode: lib.CodeInsufficientLiquidity},
		{name: "constant price b to a", curve: ConstantPriceCurve{TokenBPrice: 4}, direction: BtoA, expected: "4"},
		{name: "constant price a to b", curve: ConstantPriceCurve{TokenBPrice: 4}, direction: AtoB, expected: "0.25"},
		{
			name:                   "offset b to a",
			detail:                 "the offset joins the source side",
			curve:                  OffsetCurve{TokenBOffset: 1_000_000},
			direction:              BtoA,
			swapSourceReserve:      0,
			swapDestinationReserve: 500_000,
			expected:               "0.5",
		},
		{
			name:                   "offset a to b",
			detail:                 "the offset joins the destination side",
			curve:                  OffsetCurve{TokenBOffset: 1_000_000},
			direction:              AtoB,
			swapSourceReserve:      500_000,
			swapDestinationReserve: 0,
			expected:               "2",
		},
		{name: "stable balanced", curve: stable, swapSourceReserve: 1_000_000, swapDestinationReserve: 1_000_000, expected: "1"},
		{
			name:                   "stable source scarce",
			detail:                 "flatter than the 2.0 reserve ratio",
			curve:                  stable,
			swapSourceReserve:      1_000_000,
			swapDestinationReserve: 2_000_000,
			expected:               "1.008351531060460056",
		},
		{name: "stable source plentiful", curve: stable, swapSourceReserve: 2_000_000, swapDestinationReserve: 1_000_000, expected: "0.991717639331913402"},
		{
			name:                   "stable scaled",
			detail:                 "one token a is worth 1000 base units of the 9 decimal token b",
			curve:                  scaled,
			swapSourceReserve:      1_000,
			swapDestinationReserve: 1_000_000,
			expected:               "1000",
		},
		{name: "stable empty", curve: stable, swapSourceReserve: 1_000, errCode: lib.CodeInsufficientLiquidity},
		{name: "unknown", errCode: lib.CodeUnknownCurveType},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := SpotPrice(test.swapSourceReserve, test.swapDestinationReserve, test.direction, test.curve)
			if test.errCode != 0 {
				require.Error(t, err, test.detail)
				require.Equal(t, test.errCode, err.Code(), test.detail)
				return
			}
			require.NoError(t, err, test.detail)
			require.Equal(t, test.expected, got.String(), test.detail)
		})
	}
}

func TestPriceImpact(t *testing.T) {
	result, err := ComputeSwap(100_000, 1_000_000, 1_000_000, AtoB, ConstantProductCurve{}, defaultTestFees)
	require.NoError(t, err)
	spot, err := SpotPrice(1_000_000, 1_000_000, AtoB, ConstantProductCurve{})
	require.NoError(t, err)
	effective := EffectivePrice(result)
	require.Equal(t, "0.90661", effective.String())
	require.Equal(t, "0.09339", PriceImpact(spot, effective).String())
	require.True(t, EffectivePrice(SwapResult{}).IsZero())
	require.True(t, PriceImpact(EffectivePrice(SwapResult{}), effective).IsZero())
}
