package dex

import (
	"math/big"

	"github.com/canopy-network/canopy-amm/lib"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places kept by quoted prices; prices are display only and never feed settlement math
const PriceScale = int32(18)

// SpotPrice() returns the marginal price of one source token in destination tokens before any trade
func SpotPrice(swapSourceReserve, swapDestinationReserve uint64, direction TradeDirection, curve Curve) (decimal.Decimal, lib.ErrorI) {
	switch c := curve.(type) {
	case ConstantProductCurve:
		return reserveRatio(lib.Wide(swapSourceReserve), lib.Wide(swapDestinationReserve))
	case OffsetCurve:
		src, dst := lib.Wide(swapSourceReserve), lib.Wide(swapDestinationReserve)
		if direction == BtoA {
			src.AddUint64(src, c.TokenBOffset)
		} else {
			dst.AddUint64(dst, c.TokenBOffset)
		}
		return reserveRatio(src, dst)
	case ConstantPriceCurve:
		if c.TokenBPrice == 0 {
			return decimal.Zero, ErrInvalidCurve("token b price must be greater than zero")
		}
		price := toDecimal(new(big.Int).SetUint64(c.TokenBPrice))
		if direction == BtoA {
			return price, nil
		}
		return decimal.NewFromInt(1).DivRound(price, PriceScale), nil
	case StableCurve:
		return c.spotPrice(swapSourceReserve, swapDestinationReserve, direction)
	default:
		return decimal.Zero, unknownCurve(curve)
	}
}

// EffectivePrice() is the destination received per source paid, fees included; zero when nothing was paid
func EffectivePrice(r SwapResult) decimal.Decimal {
	if r.SourceAmountSwapped == 0 {
		return decimal.Zero
	}
	return toDecimal(new(big.Int).SetUint64(r.DestinationAmountSwapped)).
		DivRound(toDecimal(new(big.Int).SetUint64(r.SourceAmountSwapped)), PriceScale)
}

// PriceImpact() is the fraction of the spot price lost by the trade: 1 - effective / spot
func PriceImpact(spot, effective decimal.Decimal) decimal.Decimal {
	if spot.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).Sub(effective.DivRound(spot, PriceScale))
}

// spotPrice() differentiates the invariant: dy/dx = (4*Ann*x²*y² + D³*y) / (4*Ann*x²*y² + D³*x) over the scaled reserves
func (c StableCurve) spotPrice(swapSourceReserve, swapDestinationReserve uint64, direction TradeDirection) (decimal.Decimal, lib.ErrorI) {
	if swapSourceReserve == 0 || swapDestinationReserve == 0 {
		return decimal.Zero, ErrInsufficientLiquidity("empty reserve")
	}
	ann, err := c.ann()
	if err != nil {
		return decimal.Zero, err
	}
	sourceFactor, destinationFactor := c.factors(direction)
	x, err := scaleUp(swapSourceReserve, sourceFactor)
	if err != nil {
		return decimal.Zero, err
	}
	y, err := scaleUp(swapDestinationReserve, destinationFactor)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := computeD(ann, x, y)
	if err != nil {
		return decimal.Zero, err
	}
	xb, yb, db := x.ToBig(), y.ToBig(), d.ToBig()
	base := new(big.Int).Mul(xb, yb)
	base.Mul(base, base).Mul(base, ann.ToBig()).Lsh(base, 2)
	dCubed := new(big.Int).Exp(db, big.NewInt(3), nil)
	numerator := new(big.Int).Add(base, new(big.Int).Mul(dCubed, yb))
	denominator := new(big.Int).Add(base, new(big.Int).Mul(dCubed, xb))
	// back to unscaled units
	numerator.Mul(numerator, new(big.Int).SetUint64(sourceFactor))
	denominator.Mul(denominator, new(big.Int).SetUint64(destinationFactor))
	return toDecimal(numerator).DivRound(toDecimal(denominator), PriceScale), nil
}

func reserveRatio(source, destination *uint256.Int) (decimal.Decimal, lib.ErrorI) {
	if source.IsZero() {
		return decimal.Zero, ErrInsufficientLiquidity("empty source reserve")
	}
	return toDecimal(destination.ToBig()).DivRound(toDecimal(source.ToBig()), PriceScale), nil
}

func toDecimal(x *big.Int) decimal.Decimal { return decimal.NewFromBigInt(x, 0) }
