package dex

import (
	"fmt"

	"github.com/canopy-network/canopy-amm/lib"
	"github.com/holiman/uint256"
)

/*
	This file implements the two token StableSwap invariant:

		Ann * S + D = Ann * D + D³ / (4 * a * b)    where Ann = amp * 2 and S = a + b

	D is found with Newton's method over the reserves, then the new destination reserve y is
	found with Newton's method over y² + (b' - D)y - c = 0. Both loops are capped and report
	non-convergence as an error. Every y is re-substituted into the integer equation before use.
*/

const (
	MinAmp           = uint64(1)         // exclusive lower bound of the amplification coefficient
	MaxAmp           = uint64(1_000_000) // exclusive upper bound of the amplification coefficient
	stableIterations = 256               // Newton iteration cap for D and y
	nCoins           = uint64(2)
)

// StableCurve is a hybrid between constant sum and constant product that flattens price around parity
// token factors scale the side with fewer decimals up so both reserves are compared in the same unit
type StableCurve struct {
	Amp          uint64 `json:"amp"`
	TokenAFactor uint64 `json:"tokenAFactor"`
	TokenBFactor uint64 `json:"tokenBFactor"`
}

func (StableCurve) Type() CurveType { return Stable }
func (StableCurve) curve()          {}

// NewStableCurve() derives the scaling factors from the token decimals
func NewStableCurve(amp uint64, tokenADecimals, tokenBDecimals uint8) (StableCurve, lib.ErrorI) {
	c := StableCurve{Amp: amp, TokenAFactor: 1, TokenBFactor: 1}
	var err lib.ErrorI
	switch {
	case tokenADecimals > tokenBDecimals:
		c.TokenBFactor, err = lib.CheckedPow10(tokenADecimals - tokenBDecimals)
	case tokenBDecimals > tokenADecimals:
		c.TokenAFactor, err = lib.CheckedPow10(tokenBDecimals - tokenADecimals)
	}
	if err != nil {
		return StableCurve{}, ErrInvalidCurve(fmt.Sprintf("decimal difference between %d and %d is too large", tokenADecimals, tokenBDecimals))
	}
	return c, nil
}

func (c StableCurve) Validate() lib.ErrorI {
	if c.Amp <= MinAmp {
		return ErrInvalidCurve(fmt.Sprintf("amp=%d <= min amp=%d", c.Amp, MinAmp))
	}
	if c.Amp >= MaxAmp {
		return ErrInvalidCurve(fmt.Sprintf("amp=%d >= max amp=%d", c.Amp, MaxAmp))
	}
	if c.TokenAFactor == 0 || c.TokenBFactor == 0 {
		return ErrInvalidCurve("scaling factor is zero")
	}
	return nil
}

// factors() returns the scaling factors of the source and destination sides
func (c StableCurve) factors(direction TradeDirection) (source, destination uint64) {
	if direction == BtoA {
		return c.TokenBFactor, c.TokenAFactor
	}
	return c.TokenAFactor, c.TokenBFactor
}

func (c StableCurve) swap(sourceAmount, swapSourceReserve, swapDestinationReserve uint64, direction TradeDirection) (r SwapWithoutFeesResult, err lib.ErrorI) {
	if sourceAmount == 0 {
		return
	}
	if swapSourceReserve == 0 || swapDestinationReserve == 0 {
		return r, ErrInsufficientLiquidity("empty reserve")
	}
	ann, err := c.ann()
	if err != nil {
		return
	}
	sourceFactor, destinationFactor := c.factors(direction)
	source, err := scaleUp(sourceAmount, sourceFactor)
	if err != nil {
		return
	}
	poolSource, err := scaleUp(swapSourceReserve, sourceFactor)
	if err != nil {
		return
	}
	poolDestination, err := scaleUp(swapDestinationReserve, destinationFactor)
	if err != nil {
		return
	}
	newPoolSource, err := lib.WideAdd(poolSource, source)
	if err != nil {
		return
	}
	d, err := computeD(ann, poolSource, poolDestination)
	if err != nil {
		return
	}
	newPoolDestination, err := computeY(ann, newPoolSource, d)
	if err != nil {
		return
	}
	// round the retained reserve up so the pool keeps the dust
	newPoolDestination, err = lib.WideDiv(newPoolDestination, lib.Wide(destinationFactor), lib.Ceiling)
	if err != nil {
		return
	}
	swapped, err := lib.WideSub(lib.Wide(swapDestinationReserve), newPoolDestination)
	if err != nil {
		return
	}
	if r.DestinationAmountSwapped, err = lib.Narrow(swapped); err != nil {
		return
	}
	r.SourceAmountSwapped = sourceAmount
	return
}

// normalizedValue() is the invariant D over the scaled reserves
func (c StableCurve) normalizedValue(reserveA, reserveB uint64) (uint64, lib.ErrorI) {
	ann, err := c.ann()
	if err != nil {
		return 0, err
	}
	a, err := scaleUp(reserveA, c.TokenAFactor)
	if err != nil {
		return 0, err
	}
	b, err := scaleUp(reserveB, c.TokenBFactor)
	if err != nil {
		return 0, err
	}
	if a.IsZero() || b.IsZero() {
		sum, e := lib.WideAdd(a, b)
		if e != nil {
			return 0, e
		}
		return lib.Narrow(sum)
	}
	d, err := computeD(ann, a, b)
	if err != nil {
		return 0, err
	}
	return lib.Narrow(d)
}

// ann() is amp * n; using A*n instead of A*n^n keeps precision at high amplification
func (c StableCurve) ann() (*uint256.Int, lib.ErrorI) {
	if c.Amp == 0 {
		return nil, ErrInvalidCurve("amp is zero")
	}
	return lib.WideMul(lib.Wide(c.Amp), lib.Wide(nCoins))
}

func scaleUp(amount, factor uint64) (*uint256.Int, lib.ErrorI) {
	if factor == 0 {
		return nil, ErrCalculationFailure("scaling factor is zero")
	}
	return lib.WideMul(lib.Wide(amount), lib.Wide(factor))
}

// computeD() iterates D = (Ann*S + 2*Dp) * D / ((Ann - 1) * D + 3*Dp), Dp = D³ / (4ab), starting from D = S
func computeD(ann, a, b *uint256.Int) (*uint256.Int, lib.ErrorI) {
	sum, err := lib.WideAdd(a, b)
	if err != nil {
		return nil, err
	}
	if sum.IsZero() {
		return sum, nil
	}
	aTimesCoins, err := lib.WideMul(a, lib.Wide(nCoins))
	if err != nil {
		return nil, err
	}
	bTimesCoins, err := lib.WideMul(b, lib.Wide(nCoins))
	if err != nil {
		return nil, err
	}
	annTimesSum, err := lib.WideMul(ann, sum)
	if err != nil {
		return nil, err
	}
	annMinusOne, err := lib.WideSub(ann, lib.Wide(1))
	if err != nil {
		return nil, err
	}
	d := sum.Clone()
	for i := 0; i < stableIterations; i++ {
		dProduct, e := lib.WideMulDiv(d, d, aTimesCoins, lib.Floor)
		if e != nil {
			return nil, e
		}
		if dProduct, e = lib.WideMulDiv(dProduct, d, bTimesCoins, lib.Floor); e != nil {
			return nil, e
		}
		next, e := nextD(annTimesSum, annMinusOne, d, dProduct)
		if e != nil {
			return nil, e
		}
		converged := absDiff(next, d).CmpUint64(1) <= 0
		d = next
		if converged {
			return d, nil
		}
	}
	return nil, ErrNonConvergence("stable invariant D", stableIterations)
}

func nextD(annTimesSum, annMinusOne, d, dProduct *uint256.Int) (*uint256.Int, lib.ErrorI) {
	twoDp, err := lib.WideMul(dProduct, lib.Wide(nCoins))
	if err != nil {
		return nil, err
	}
	numerator, err := lib.WideAdd(annTimesSum, twoDp)
	if err != nil {
		return nil, err
	}
	if numerator, err = lib.WideMul(numerator, d); err != nil {
		return nil, err
	}
	threeDp, err := lib.WideMul(dProduct, lib.Wide(nCoins+1))
	if err != nil {
		return nil, err
	}
	denominator, err := lib.WideMul(annMinusOne, d)
	if err != nil {
		return nil, err
	}
	if denominator, err = lib.WideAdd(denominator, threeDp); err != nil {
		return nil, err
	}
	return lib.WideDiv(numerator, denominator, lib.Floor)
}

// computeY() solves for the destination reserve y given the new source reserve x and the invariant D
//
//	y = ceil((y² + c) / (2y + b - D))    where b = x + D/Ann and c = D³ / (4 * x * Ann)
func computeY(ann, x, d *uint256.Int) (*uint256.Int, lib.ErrorI) {
	dOverAnn, err := lib.WideDiv(d, ann, lib.Floor)
	if err != nil {
		return nil, err
	}
	b, err := lib.WideAdd(x, dOverAnn)
	if err != nil {
		return nil, err
	}
	xTimesCoins, err := lib.WideMul(x, lib.Wide(nCoins))
	if err != nil {
		return nil, err
	}
	c, err := lib.WideMulDiv(d, d, xTimesCoins, lib.Floor)
	if err != nil {
		return nil, err
	}
	annTimesCoins, err := lib.WideMul(ann, lib.Wide(nCoins))
	if err != nil {
		return nil, err
	}
	if c, err = lib.WideMulDiv(c, d, annTimesCoins, lib.Floor); err != nil {
		return nil, err
	}
	y := d.Clone()
	for i := 0; i < stableIterations; i++ {
		next, e := nextY(y, b, c, d)
		if e != nil {
			return nil, e
		}
		if next.Eq(y) {
			if e = checkY(y, b, c, d); e != nil {
				return nil, e
			}
			return y, nil
		}
		y = next
	}
	return nil, ErrNonConvergence("stable reserve y", stableIterations)
}

func nextY(y, b, c, d *uint256.Int) (*uint256.Int, lib.ErrorI) {
	ySquared, err := lib.WideMul(y, y)
	if err != nil {
		return nil, err
	}
	numerator, err := lib.WideAdd(ySquared, c)
	if err != nil {
		return nil, err
	}
	twoY, err := lib.WideMul(y, lib.Wide(2))
	if err != nil {
		return nil, err
	}
	denominator, err := lib.WideAdd(twoY, b)
	if err != nil {
		return nil, err
	}
	if denominator, err = lib.WideSub(denominator, d); err != nil {
		return nil, err
	}
	next := new(uint256.Int)
	if !denominator.IsZero() {
		if next, err = lib.WideDiv(numerator, denominator, lib.Ceiling); err != nil {
			return nil, err
		}
	}
	// an approximate root may land on zero; one token is the smallest non-empty reserve
	if next.IsZero() && !numerator.IsZero() {
		next.SetOne()
	}
	return next, nil
}

// checkY() re-substitutes y into y² + b*y >= c + D*y; a root below the true one would let the invariant shrink
func checkY(y, b, c, d *uint256.Int) lib.ErrorI {
	ySquared, err := lib.WideMul(y, y)
	if err != nil {
		return err
	}
	by, err := lib.WideMul(b, y)
	if err != nil {
		return err
	}
	left, err := lib.WideAdd(ySquared, by)
	if err != nil {
		return err
	}
	dy, err := lib.WideMul(d, y)
	if err != nil {
		return err
	}
	right, err := lib.WideAdd(c, dy)
	if err != nil {
		return err
	}
	if left.Lt(right) {
		return ErrCalculationFailure(fmt.Sprintf("stable reserve y=%s does not satisfy the invariant", y.Dec()))
	}
	return nil
}

func absDiff(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return new(uint256.Int).Sub(y, x)
	}
	return new(uint256.Int).Sub(x, y)
}

// factorToDecimals() is log10 of a power of ten scaling factor
func factorToDecimals(factor uint64) (decimals uint8) {
	for ; factor >= 10; factor /= 10 {
		decimals++
	}
	return
}
