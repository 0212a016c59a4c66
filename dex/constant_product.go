package dex

import (
	"github.com/canopy-network/canopy-amm/lib"
	"github.com/holiman/uint256"
)

// ConstantProductCurve prices trades on the invariant reserveA * reserveB
type ConstantProductCurve struct{}

func (ConstantProductCurve) Type() CurveType      { return ConstantProduct }
func (ConstantProductCurve) Validate() lib.ErrorI { return nil }
func (ConstantProductCurve) curve()               {}

func (ConstantProductCurve) swap(sourceAmount, swapSourceReserve, swapDestinationReserve uint64) (SwapWithoutFeesResult, lib.ErrorI) {
	return constantProductSwap(sourceAmount, swapSourceReserve, swapDestinationReserve)
}

// constantProductSwap() solves (src + in)(dst - out) >= src * dst for out
// the pool keeps the rounding on the destination side, then the source side is recomputed so
// the trader only pays for what the rounded destination reserve requires
func constantProductSwap(sourceAmount, swapSourceReserve, swapDestinationReserve uint64) (r SwapWithoutFeesResult, err lib.ErrorI) {
	if swapSourceReserve == 0 || swapDestinationReserve == 0 {
		return r, ErrInsufficientLiquidity("empty reserve")
	}
	invariant, err := lib.WideMul(lib.Wide(swapSourceReserve), lib.Wide(swapDestinationReserve))
	if err != nil {
		return
	}
	newSourceReserve, err := lib.CheckedAdd(swapSourceReserve, sourceAmount)
	if err != nil {
		return
	}
	newDestinationReserve, err := ceilDivNonZero(invariant, lib.Wide(newSourceReserve))
	if err != nil {
		return
	}
	newSourceReserve, err = ceilDivNonZero(invariant, lib.Wide(newDestinationReserve))
	if err != nil {
		return
	}
	if r.SourceAmountSwapped, err = lib.CheckedSub(newSourceReserve, swapSourceReserve); err != nil {
		return
	}
	r.DestinationAmountSwapped, err = lib.CheckedSub(swapDestinationReserve, newDestinationReserve)
	return
}

// ceilDivNonZero() returns ceil(x / y) narrowed to 64 bits; a zero quotient means the trade would empty a reserve
func ceilDivNonZero(x, y *uint256.Int) (uint64, lib.ErrorI) {
	q, err := lib.WideDiv(x, y, lib.Ceiling)
	if err != nil {
		return 0, err
	}
	if q.IsZero() {
		return 0, ErrInsufficientLiquidity("trade would empty the destination reserve")
	}
	return lib.Narrow(q)
}

// depositSingleConstantProduct() solves for the pool tokens that grow the invariant by the same factor as the deposit
//
//	pool = supply * (sqrt(1 + in/R) - 1) = (sqrt(supply² * R * (R + in)) - supply * R) / R
//
// every term is an integer so flooring the root and the division rounds against the depositor
func depositSingleConstantProduct(sourceAmount, swapSourceReserve, poolTokenSupply uint64) (uint64, lib.ErrorI) {
	// an unseeded pool has no invariant to grow
	if poolTokenSupply == 0 {
		return 0, lib.ErrDivisionByZero()
	}
	if sourceAmount == 0 {
		return 0, nil
	}
	if swapSourceReserve == 0 {
		return 0, ErrInsufficientLiquidity("empty source reserve")
	}
	newReserve, err := lib.CheckedAdd(swapSourceReserve, sourceAmount)
	if err != nil {
		return 0, err
	}
	root, supplyTimesReserve, err := scaledRoot(poolTokenSupply, swapSourceReserve, newReserve)
	if err != nil {
		return 0, err
	}
	numerator, err := lib.WideSub(root, supplyTimesReserve)
	if err != nil {
		return 0, err
	}
	pool, err := lib.WideDiv(numerator, lib.Wide(swapSourceReserve), lib.Floor)
	if err != nil {
		return 0, err
	}
	return lib.Narrow(pool)
}

// withdrawSingleConstantProduct() solves for the pool tokens whose burn shrinks the invariant by the same factor as the withdrawal
//
//	burn = supply * (1 - sqrt(1 - out/R)) = (supply * R - sqrt(supply² * R * (R - out))) / R
//
// flooring the root overstates the numerator and the division rounds up, both against the withdrawer
func withdrawSingleConstantProduct(destinationAmount, swapDestinationReserve, poolTokenSupply uint64) (uint64, lib.ErrorI) {
	if poolTokenSupply == 0 {
		return 0, lib.ErrDivisionByZero()
	}
	if destinationAmount == 0 {
		return 0, nil
	}
	if destinationAmount >= swapDestinationReserve {
		return 0, ErrInsufficientLiquidity("withdrawal would empty the reserve")
	}
	newReserve, err := lib.CheckedSub(swapDestinationReserve, destinationAmount)
	if err != nil {
		return 0, err
	}
	root, supplyTimesReserve, err := scaledRoot(poolTokenSupply, swapDestinationReserve, newReserve)
	if err != nil {
		return 0, err
	}
	numerator, err := lib.WideSub(supplyTimesReserve, root)
	if err != nil {
		return 0, err
	}
	burn, err := lib.WideDiv(numerator, lib.Wide(swapDestinationReserve), lib.Ceiling)
	if err != nil {
		return 0, err
	}
	return lib.Narrow(burn)
}

// scaledRoot() returns floor(sqrt(supply² * reserve * newReserve)) and supply * reserve
// each factor is below 2^64 so the radicand always fits 256 bits
func scaledRoot(supply, reserve, newReserve uint64) (root, supplyTimesReserve *uint256.Int, err lib.ErrorI) {
	if supplyTimesReserve, err = lib.WideMul(lib.Wide(supply), lib.Wide(reserve)); err != nil {
		return
	}
	supplyTimesNew, err := lib.WideMul(lib.Wide(supply), lib.Wide(newReserve))
	if err != nil {
		return
	}
	radicand, err := lib.WideMul(supplyTimesReserve, supplyTimesNew)
	if err != nil {
		return
	}
	root = new(uint256.Int).Sqrt(radicand)
	return
}

// sqrtProduct() returns floor(sqrt(a * b))
func sqrtProduct(a, b uint64) (uint64, lib.ErrorI) {
	product, err := lib.WideMul(lib.Wide(a), lib.Wide(b))
	if err != nil {
		return 0, err
	}
	return lib.Narrow(new(uint256.Int).Sqrt(product))
}
