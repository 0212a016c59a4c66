package dex

import (
	"github.com/canopy-network/canopy-amm/lib"
)

// OffsetCurve is a constant product curve where token B carries TokenBOffset of virtual liquidity
// the virtual tokens can be priced against but never withdrawn, so the curve accepts no deposits
type OffsetCurve struct {
	TokenBOffset uint64 `json:"tokenBOffset"`
}

func (OffsetCurve) Type() CurveType { return Offset }
func (OffsetCurve) curve()          {}

func (c OffsetCurve) Validate() lib.ErrorI {
	if c.TokenBOffset == 0 {
		return ErrInvalidCurve("token b offset must be greater than zero")
	}
	return nil
}

func (c OffsetCurve) swap(sourceAmount, swapSourceReserve, swapDestinationReserve uint64, direction TradeDirection) (r SwapWithoutFeesResult, err lib.ErrorI) {
	src, dst := swapSourceReserve, swapDestinationReserve
	switch direction {
	case AtoB:
		if dst, err = lib.CheckedAdd(dst, c.TokenBOffset); err != nil {
			return
		}
	case BtoA:
		if src, err = lib.CheckedAdd(src, c.TokenBOffset); err != nil {
			return
		}
	default:
		return r, ErrInvalidTradeDirection(direction.String())
	}
	if r, err = constantProductSwap(sourceAmount, src, dst); err != nil {
		return
	}
	// only real token B may leave the pool
	if r.DestinationAmountSwapped != 0 && r.DestinationAmountSwapped >= swapDestinationReserve {
		return SwapWithoutFeesResult{}, ErrInsufficientLiquidity("trade exceeds the real destination reserve")
	}
	return
}

// withdrawSingle() uses the constant product formula with the offset added when token B is withdrawn
func (c OffsetCurve) withdrawSingle(destinationAmount, swapDestinationReserve, poolTokenSupply uint64, direction TradeDirection) (uint64, lib.ErrorI) {
	if direction == BtoA {
		if destinationAmount >= swapDestinationReserve {
			return 0, ErrInsufficientLiquidity("withdrawal would empty the real reserve")
		}
		reserve, err := lib.CheckedAdd(swapDestinationReserve, c.TokenBOffset)
		if err != nil {
			return 0, err
		}
		return withdrawSingleConstantProduct(destinationAmount, reserve, poolTokenSupply)
	}
	return withdrawSingleConstantProduct(destinationAmount, swapDestinationReserve, poolTokenSupply)
}

// normalizedValue() is sqrt(A * (B + offset))
func (c OffsetCurve) normalizedValue(reserveA, reserveB uint64) (uint64, lib.ErrorI) {
	b, err := lib.CheckedAdd(reserveB, c.TokenBOffset)
	if err != nil {
		return 0, err
	}
	return sqrtProduct(reserveA, b)
}
