package dex

import (
	"fmt"

	"github.com/canopy-network/canopy-amm/lib"
)

/*
	This file implements the four fee tiers of a pool.
	Trade and owner trade fees are taken from the same gross amount, the host fee is a fraction of the owner trade fee
	and the owner withdraw fee is charged on burned pool tokens.
*/

// Fee is a rate expressed as numerator / denominator; 0/0 means no fee
type Fee struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// Validate() requires a rate in [0, 1] with a non-zero denominator whenever the fee is charged
func (f Fee) Validate() lib.ErrorI { return f.validate("fee") }

func (f Fee) validate(name string) lib.ErrorI {
	if f.Numerator == 0 {
		return nil
	}
	if f.Denominator == 0 {
		return ErrInvalidFee(fmt.Sprintf("%s %d/0 has a zero denominator", name, f.Numerator))
	}
	if f.Numerator > f.Denominator {
		return ErrInvalidFee(fmt.Sprintf("%s %d/%d is above 100%%", name, f.Numerator, f.Denominator))
	}
	return nil
}

// Apply() returns amount * rate with the declared rounding
func (f Fee) Apply(amount uint64, round lib.RoundDirection) (uint64, lib.ErrorI) {
	if f.Numerator == 0 || amount == 0 {
		return 0, nil
	}
	return lib.CheckedMulDiv(amount, f.Numerator, f.Denominator, round)
}

// FeeConfig holds the four independently configured fee tiers of a pool
type FeeConfig struct {
	TradeFee         Fee `json:"tradeFee"`         // kept by the pool, grows the invariant
	OwnerTradeFee    Fee `json:"ownerTradeFee"`    // paid to the protocol owner on every trade
	OwnerWithdrawFee Fee `json:"ownerWithdrawFee"` // paid to the protocol owner on pool token burns
	HostFee          Fee `json:"hostFee"`          // share of the owner trade fee paid to a referring host
}

// NewFeeConfig() converts the flat configuration form
func NewFeeConfig(p lib.FeeParams) FeeConfig {
	return FeeConfig{
		TradeFee:         Fee{p.TradeFeeNumerator, p.TradeFeeDenominator},
		OwnerTradeFee:    Fee{p.OwnerTradeFeeNumerator, p.OwnerTradeFeeDenominator},
		OwnerWithdrawFee: Fee{p.OwnerWithdrawFeeNumerator, p.OwnerWithdrawFeeDenominator},
		HostFee:          Fee{p.HostFeeNumerator, p.HostFeeDenominator},
	}
}

// Params() converts to the flat configuration form
func (f FeeConfig) Params() lib.FeeParams {
	return lib.FeeParams{
		TradeFeeNumerator:           f.TradeFee.Numerator,
		TradeFeeDenominator:         f.TradeFee.Denominator,
		OwnerTradeFeeNumerator:      f.OwnerTradeFee.Numerator,
		OwnerTradeFeeDenominator:    f.OwnerTradeFee.Denominator,
		OwnerWithdrawFeeNumerator:   f.OwnerWithdrawFee.Numerator,
		OwnerWithdrawFeeDenominator: f.OwnerWithdrawFee.Denominator,
		HostFeeNumerator:            f.HostFee.Numerator,
		HostFeeDenominator:          f.HostFee.Denominator,
	}
}

// Validate() checks every tier and that trade plus owner trade fees never exceed the gross amount
func (f FeeConfig) Validate() lib.ErrorI {
	tiers := []struct {
		name string
		fee  Fee
	}{
		{"trade fee", f.TradeFee},
		{"owner trade fee", f.OwnerTradeFee},
		{"owner withdraw fee", f.OwnerWithdrawFee},
		{"host fee", f.HostFee},
	}
	for _, tier := range tiers {
		if err := tier.fee.validate(tier.name); err != nil {
			return err
		}
	}
	if f.TradeFee.Numerator == 0 || f.OwnerTradeFee.Numerator == 0 {
		return nil
	}
	// t/T + o/O <= 1  <=>  t*O + o*T <= T*O
	left, err := lib.WideMul(lib.Wide(f.TradeFee.Numerator), lib.Wide(f.OwnerTradeFee.Denominator))
	if err != nil {
		return err
	}
	right, err := lib.WideMul(lib.Wide(f.OwnerTradeFee.Numerator), lib.Wide(f.TradeFee.Denominator))
	if err != nil {
		return err
	}
	if left, err = lib.WideAdd(left, right); err != nil {
		return err
	}
	total, err := lib.WideMul(lib.Wide(f.TradeFee.Denominator), lib.Wide(f.OwnerTradeFee.Denominator))
	if err != nil {
		return err
	}
	if left.Gt(total) {
		return ErrInvalidFee("trade fee and owner trade fee together are above 100%")
	}
	return nil
}

// TradingFee() is the pool's share of a trade, rounded down
func (f FeeConfig) TradingFee(amount uint64) (uint64, lib.ErrorI) {
	return f.TradeFee.Apply(amount, lib.Floor)
}

// OwnerTradingFee() is the owner's share of a trade, rounded down
func (f FeeConfig) OwnerTradingFee(amount uint64) (uint64, lib.ErrorI) {
	return f.OwnerTradeFee.Apply(amount, lib.Floor)
}

// HostFeeOf() is the host's cut of an owner trading fee, rounded down
func (f FeeConfig) HostFeeOf(ownerTradingFee uint64) (uint64, lib.ErrorI) {
	return f.HostFee.Apply(ownerTradingFee, lib.Floor)
}

// OwnerWithdrawFeeOf() is the owner's share of burned pool tokens, rounded up
func (f FeeConfig) OwnerWithdrawFeeOf(poolTokens uint64) (uint64, lib.ErrorI) {
	return f.OwnerWithdrawFee.Apply(poolTokens, lib.Ceiling)
}

// FeeBreakdown splits a gross trade amount into its fees and the net amount the curve receives
type FeeBreakdown struct {
	TradeFee      uint64 `json:"tradeFee"`
	OwnerTradeFee uint64 `json:"ownerTradeFee"`
	HostFee       uint64 `json:"hostFee"` // included in OwnerTradeFee
	NetAmount     uint64 `json:"netAmount"`
}

// TradingFees() computes every trade tier for a gross amount; TradeFee + OwnerTradeFee + NetAmount == gross
func (f FeeConfig) TradingFees(gross uint64) (b FeeBreakdown, err lib.ErrorI) {
	if b.TradeFee, err = f.TradingFee(gross); err != nil {
		return
	}
	if b.OwnerTradeFee, err = f.OwnerTradingFee(gross); err != nil {
		return
	}
	if b.HostFee, err = f.HostFeeOf(b.OwnerTradeFee); err != nil {
		return
	}
	totalFees, err := lib.CheckedAdd(b.TradeFee, b.OwnerTradeFee)
	if err != nil {
		return
	}
	b.NetAmount, err = lib.CheckedSub(gross, totalFees)
	return
}
