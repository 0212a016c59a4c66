package dex

import (
	"math"
	"testing"

	"github.com/canopy-network/canopy-amm/lib"
	"github.com/stretchr/testify/require"
)

func TestFeeValidate(t *testing.T) {
	tests := []struct {
		name    string
		detail  string
		fees    FeeConfig
		errCode lib.ErrorCode
	}{
		{
			name:   "no fees",
			detail: "0/0 everywhere is a free pool",
			fees:   FeeConfig{},
		},
		{
			name:   "zero numerator with denominator",
			detail: "0/10000 is a valid zero fee",
			fees:   FeeConfig{TradeFee: Fee{0, 10000}},
		},
		{
			name:   "default",
			detail: "the default configuration is valid",
			fees:   NewFeeConfig(lib.DefaultConfig().DefaultFees),
		},
		{
			name:    "zero denominator",
			detail:  "a charged fee needs a denominator",
			fees:    FeeConfig{OwnerTradeFee: Fee{1, 0}},
			errCode: lib.CodeInvalidFee,
		},
		{
			name:    "above one hundred percent",
			detail:  "numerator above denominator",
			fees:    FeeConfig{HostFee: Fee{101, 100}},
			errCode: lib.CodeInvalidFee,
		},
		{
			name:   "exactly one hundred percent",
			detail: "the whole amount may be charged",
			fees:   FeeConfig{OwnerWithdrawFee: Fee{100, 100}},
		},
		{
			name:    "combined trade fees above one hundred percent",
			detail:  "60% + 50% of the same gross amount",
			fees:    FeeConfig{TradeFee: Fee{6, 10}, OwnerTradeFee: Fee{1, 2}},
			errCode: lib.CodeInvalidFee,
		},
		{
			name:   "combined trade fees at one hundred percent",
			detail: "50% + 50% of the same gross amount",
			fees:   FeeConfig{TradeFee: Fee{5, 10}, OwnerTradeFee: Fee{1, 2}},
		},
		{
			name:   "combined check with large denominators",
			detail: "the cross products exceed 64 bits",
			fees:   FeeConfig{TradeFee: Fee{1, math.MaxUint64}, OwnerTradeFee: Fee{1, math.MaxUint64}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.fees.Validate()
			if test.errCode != 0 {
				require.Error(t, err, test.detail)
				require.Equal(t, test.errCode, err.Code(), test.detail)
				require.Equal(t, lib.DexModule, err.Module())
				return
			}
			require.NoError(t, err, test.detail)
		})
	}
}

func TestTradingFees(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		fees     FeeConfig
		gross    uint64
		expected FeeBreakdown
	}{
		{
			name:   "default rates",
			detail: "25 bps to the pool, 5 bps to the owner, 20% of that to the host",
			fees: FeeConfig{
				TradeFee:      Fee{25, 10000},
				OwnerTradeFee: Fee{5, 10000},
				HostFee:       Fee{20, 100},
			},
			gross:    100000,
			expected: FeeBreakdown{TradeFee: 250, OwnerTradeFee: 50, HostFee: 10, NetAmount: 99700},
		},
		{
			name:     "fees round down to zero",
			detail:   "a tiny trade pays no fee",
			fees:     FeeConfig{TradeFee: Fee{25, 10000}, OwnerTradeFee: Fee{5, 10000}},
			gross:    39,
			expected: FeeBreakdown{NetAmount: 39},
		},
		{
			name:     "no fees",
			detail:   "the whole amount reaches the curve",
			gross:    12345,
			expected: FeeBreakdown{NetAmount: 12345},
		},
		{
			name:     "each fee is taken from the gross amount",
			detail:   "1/3 of 10 is 3 for both tiers rather than compounding",
			fees:     FeeConfig{TradeFee: Fee{1, 3}, OwnerTradeFee: Fee{1, 3}},
			gross:    10,
			expected: FeeBreakdown{TradeFee: 3, OwnerTradeFee: 3, NetAmount: 4},
		},
		{
			name:     "max amount",
			detail:   "the product overflows 64 bits but the fee does not",
			fees:     FeeConfig{TradeFee: Fee{1, 2}},
			gross:    math.MaxUint64,
			expected: FeeBreakdown{TradeFee: math.MaxUint64 / 2, NetAmount: math.MaxUint64 - math.MaxUint64/2},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.fees.TradingFees(test.gross)
			require.NoError(t, err, test.detail)
			require.Equal(t, test.expected, got, test.detail)
			// conservation
			require.Equal(t, test.gross, got.TradeFee+got.OwnerTradeFee+got.NetAmount)
			require.LessOrEqual(t, got.HostFee, got.OwnerTradeFee)
		})
	}
}

func TestOwnerWithdrawFeeRoundsUp(t *testing.T) {
	fees := FeeConfig{OwnerWithdrawFee: Fee{1, 100}}
	got, err := fees.OwnerWithdrawFeeOf(51316702)
	require.NoError(t, err)
	require.Equal(t, uint64(513168), got)
	got, err = fees.OwnerWithdrawFeeOf(1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), got)
	got, err = fees.OwnerWithdrawFeeOf(0)
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestFeeParamsRoundTrip(t *testing.T) {
	params := lib.FeeParams{
		TradeFeeNumerator:           25,
		TradeFeeDenominator:         10000,
		OwnerTradeFeeNumerator:      5,
		OwnerTradeFeeDenominator:    10000,
		OwnerWithdrawFeeNumerator:   1,
		OwnerWithdrawFeeDenominator: 6,
		HostFeeNumerator:            20,
		HostFeeDenominator:          100,
	}
	fees := NewFeeConfig(params)
	require.Equal(t, Fee{1, 6}, fees.OwnerWithdrawFee)
	require.Equal(t, params, fees.Params())
}
