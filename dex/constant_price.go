package dex

import (
	"github.com/canopy-network/canopy-amm/lib"
)

// ConstantPriceCurve exchanges at a fixed ratio: one token B always costs TokenBPrice token A
type ConstantPriceCurve struct {
	TokenBPrice uint64 `json:"tokenBPrice"`
}

func (ConstantPriceCurve) Type() CurveType { return ConstantPrice }
func (ConstantPriceCurve) curve()          {}

func (c ConstantPriceCurve) Validate() lib.ErrorI {
	if c.TokenBPrice == 0 {
		return ErrInvalidCurve("token b price must be greater than zero")
	}
	return nil
}

// swap() converts at the fixed price; buying B only consumes whole multiples of the price
func (c ConstantPriceCurve) swap(sourceAmount, swapDestinationReserve uint64, direction TradeDirection) (r SwapWithoutFeesResult, err lib.ErrorI) {
	switch direction {
	case BtoA:
		if r.DestinationAmountSwapped, err = lib.CheckedMul(sourceAmount, c.TokenBPrice); err != nil {
			return
		}
		r.SourceAmountSwapped = sourceAmount
	case AtoB:
		// partial units of B stay with the trader
		if r.DestinationAmountSwapped, err = lib.CheckedDivRound(sourceAmount, c.TokenBPrice, lib.Floor); err != nil {
			return
		}
		if r.SourceAmountSwapped, err = lib.CheckedMul(r.DestinationAmountSwapped, c.TokenBPrice); err != nil {
			return
		}
	default:
		return r, ErrInvalidTradeDirection(direction.String())
	}
	if r.DestinationAmountSwapped != 0 && r.DestinationAmountSwapped >= swapDestinationReserve {
		return SwapWithoutFeesResult{}, ErrInsufficientLiquidity("trade would empty the destination reserve")
	}
	return
}

// normalizedValue() values the pool in token A and halves it: (A + B * price) / 2
func (c ConstantPriceCurve) normalizedValue(reserveA, reserveB uint64) (uint64, lib.ErrorI) {
	bValue, err := lib.WideMul(lib.Wide(reserveB), lib.Wide(c.TokenBPrice))
	if err != nil {
		return 0, err
	}
	total, err := lib.WideAdd(bValue, lib.Wide(reserveA))
	if err != nil {
		return 0, err
	}
	half, err := lib.WideDiv(total, lib.Wide(TokensInPool), lib.Floor)
	if err != nil {
		return 0, err
	}
	return lib.Narrow(half)
}
