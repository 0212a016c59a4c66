package dex

import (
	"strings"

	"github.com/canopy-network/canopy-amm/lib"
)

/*
	This file defines the closed set of pricing curves and dispatches every curve operation over it.
	Each dispatch is a type switch; a curve value outside the set is rejected, never guessed at.
*/

const (
	InitialPoolSupply = uint64(1_000_000_000) // pool tokens minted to the first depositor of a new pool
	TokensInPool      = uint64(2)             // number of trading tokens held by a pool
)

// TradeDirection determines which reserve is the source and which is the destination
type TradeDirection uint8

const (
	AtoB TradeDirection = iota // token A enters, token B leaves
	BtoA                       // token B enters, token A leaves
)

// Opposite() returns the reverse direction
func (d TradeDirection) Opposite() TradeDirection {
	if d == AtoB {
		return BtoA
	}
	return AtoB
}

func (d TradeDirection) String() string {
	if d == BtoA {
		return "b_to_a"
	}
	return "a_to_b"
}

// ParseTradeDirection() accepts 'a_to_b', 'atob', 'b_to_a' or 'btoa' in any case
func ParseTradeDirection(s string) (TradeDirection, lib.ErrorI) {
	switch strings.ReplaceAll(strings.ToLower(s), "_", "") {
	case "atob":
		return AtoB, nil
	case "btoa":
		return BtoA, nil
	default:
		return 0, ErrInvalidTradeDirection(s)
	}
}

// CurveType names a curve variant
type CurveType string

const (
	ConstantProduct CurveType = "constant_product"
	ConstantPrice   CurveType = "constant_price"
	Offset          CurveType = "offset"
	Stable          CurveType = "stable"
)

// Curve is implemented only by the variants of this package
type Curve interface {
	// Type() names the variant
	Type() CurveType
	// Validate() checks the variant's parameters
	Validate() lib.ErrorI
	curve()
}

var (
	_ Curve = ConstantProductCurve{}
	_ Curve = ConstantPriceCurve{}
	_ Curve = OffsetCurve{}
	_ Curve = StableCurve{}
)

// NewCurve() decodes and validates curve parameters
func NewCurve(p lib.CurveParams) (c Curve, err lib.ErrorI) {
	switch CurveType(strings.ToLower(p.Type)) {
	case ConstantProduct, "":
		c = ConstantProductCurve{}
	case ConstantPrice:
		c = ConstantPriceCurve{TokenBPrice: p.TokenBPrice}
	case Offset:
		c = OffsetCurve{TokenBOffset: p.TokenBOffset}
	case Stable:
		if c, err = NewStableCurve(p.Amp, p.TokenADecimals, p.TokenBDecimals); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownCurveType(p.Type)
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return
}

// CurveToParams() is the inverse of NewCurve(); stable decimals are reported as the decimal difference
func CurveToParams(curve Curve) lib.CurveParams {
	p := lib.CurveParams{}
	switch c := curve.(type) {
	case ConstantProductCurve:
		p.Type = string(ConstantProduct)
	case ConstantPriceCurve:
		p.Type, p.TokenBPrice = string(ConstantPrice), c.TokenBPrice
	case OffsetCurve:
		p.Type, p.TokenBOffset = string(Offset), c.TokenBOffset
	case StableCurve:
		p.Type, p.Amp = string(Stable), c.Amp
		p.TokenADecimals, p.TokenBDecimals = factorToDecimals(c.TokenBFactor), factorToDecimals(c.TokenAFactor)
	}
	return p
}

// SwapWithoutFeesResult is the curve's answer for a fee-free trade
type SwapWithoutFeesResult struct {
	SourceAmountSwapped      uint64 `json:"sourceAmountSwapped"`      // the source tokens the curve actually consumed
	DestinationAmountSwapped uint64 `json:"destinationAmountSwapped"` // the destination tokens leaving the pool
}

// SwapWithoutFees() computes the curve output for a source amount that already had fees removed
func SwapWithoutFees(sourceAmount, swapSourceReserve, swapDestinationReserve uint64, direction TradeDirection, curve Curve) (SwapWithoutFeesResult, lib.ErrorI) {
	switch c := curve.(type) {
	case ConstantProductCurve:
		return c.swap(sourceAmount, swapSourceReserve, swapDestinationReserve)
	case ConstantPriceCurve:
		return c.swap(sourceAmount, swapDestinationReserve, direction)
	case OffsetCurve:
		return c.swap(sourceAmount, swapSourceReserve, swapDestinationReserve, direction)
	case StableCurve:
		return c.swap(sourceAmount, swapSourceReserve, swapDestinationReserve, direction)
	default:
		return SwapWithoutFeesResult{}, unknownCurve(curve)
	}
}

// DepositSingleTokenType() returns the pool tokens owed for depositing sourceAmount on one side only, rounded down
func DepositSingleTokenType(sourceAmount, swapSourceReserve, poolTokenSupply uint64, direction TradeDirection, curve Curve) (uint64, lib.ErrorI) {
	switch c := curve.(type) {
	case ConstantProductCurve:
		return depositSingleConstantProduct(sourceAmount, swapSourceReserve, poolTokenSupply)
	case ConstantPriceCurve, StableCurve:
		return 0, ErrUnsupportedOperation(c.Type(), "single token type deposit")
	case OffsetCurve:
		return 0, ErrUnsupportedOperation(c.Type(), "deposit")
	default:
		return 0, unknownCurve(curve)
	}
}

// WithdrawSingleTokenType() returns the pool tokens that must be burned to withdraw exactly destinationAmount from one side, rounded up
func WithdrawSingleTokenType(destinationAmount, swapDestinationReserve, poolTokenSupply uint64, direction TradeDirection, curve Curve) (uint64, lib.ErrorI) {
	switch c := curve.(type) {
	case ConstantProductCurve:
		return withdrawSingleConstantProduct(destinationAmount, swapDestinationReserve, poolTokenSupply)
	case OffsetCurve:
		return c.withdrawSingle(destinationAmount, swapDestinationReserve, poolTokenSupply, direction)
	case ConstantPriceCurve, StableCurve:
		return 0, ErrUnsupportedOperation(c.Type(), "single token type withdrawal")
	default:
		return 0, unknownCurve(curve)
	}
}

// AllowsDeposits() is false for curves whose liquidity can only be withdrawn
func AllowsDeposits(curve Curve) bool {
	_, isOffset := curve.(OffsetCurve)
	return !isOffset
}

// NormalizedValue() returns a value proportional to the pool's worth under the curve, used to compare a pool before and after an operation
func NormalizedValue(reserveA, reserveB uint64, curve Curve) (uint64, lib.ErrorI) {
	switch c := curve.(type) {
	case ConstantProductCurve:
		return sqrtProduct(reserveA, reserveB)
	case ConstantPriceCurve:
		return c.normalizedValue(reserveA, reserveB)
	case OffsetCurve:
		return c.normalizedValue(reserveA, reserveB)
	case StableCurve:
		return c.normalizedValue(reserveA, reserveB)
	default:
		return 0, unknownCurve(curve)
	}
}

func unknownCurve(curve Curve) lib.ErrorI {
	if curve == nil {
		return ErrUnknownCurveType("nil")
	}
	return ErrUnknownCurveType(string(curve.Type()))
}
