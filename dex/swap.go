package dex

import (
	"github.com/canopy-network/canopy-amm/lib"
)

// SwapResult is the full outcome of a trade against a pool snapshot
type SwapResult struct {
	NewSourceReserve         uint64 `json:"newSourceReserve"`         // source reserve after the trade, fees included
	NewDestinationReserve    uint64 `json:"newDestinationReserve"`    // destination reserve after the trade
	SourceAmountSwapped      uint64 `json:"sourceAmountSwapped"`      // source tokens taken from the trader, fees included
	DestinationAmountSwapped uint64 `json:"destinationAmountSwapped"` // destination tokens paid to the trader
	TradeFee                 uint64 `json:"tradeFee"`                 // source tokens kept by the pool
	OwnerFee                 uint64 `json:"ownerFee"`                 // source tokens owed to the owner, host fee included
	HostFee                  uint64 `json:"hostFee"`                  // part of the owner fee owed to the host
}

// ComputeSwap() charges the trade and owner fees on sourceAmount and prices the remainder on the curve
// the owner fee stays in NewSourceReserve; callers that pay it out subtract OwnerFee
func ComputeSwap(sourceAmount, swapSourceReserve, swapDestinationReserve uint64, direction TradeDirection, curve Curve, fees FeeConfig) (r SwapResult, err lib.ErrorI) {
	r.NewSourceReserve, r.NewDestinationReserve = swapSourceReserve, swapDestinationReserve
	if sourceAmount == 0 {
		return
	}
	breakdown, err := fees.TradingFees(sourceAmount)
	if err != nil {
		return SwapResult{}, err
	}
	swap, err := SwapWithoutFees(breakdown.NetAmount, swapSourceReserve, swapDestinationReserve, direction, curve)
	if err != nil {
		return SwapResult{}, err
	}
	totalFees, err := lib.CheckedAdd(breakdown.TradeFee, breakdown.OwnerTradeFee)
	if err != nil {
		return SwapResult{}, err
	}
	if r.SourceAmountSwapped, err = lib.CheckedAdd(swap.SourceAmountSwapped, totalFees); err != nil {
		return SwapResult{}, err
	}
	if r.NewSourceReserve, err = lib.CheckedAdd(swapSourceReserve, r.SourceAmountSwapped); err != nil {
		return SwapResult{}, err
	}
	if r.NewDestinationReserve, err = lib.CheckedSub(swapDestinationReserve, swap.DestinationAmountSwapped); err != nil {
		return SwapResult{}, err
	}
	r.DestinationAmountSwapped = swap.DestinationAmountSwapped
	r.TradeFee, r.OwnerFee, r.HostFee = breakdown.TradeFee, breakdown.OwnerTradeFee, breakdown.HostFee
	return
}
