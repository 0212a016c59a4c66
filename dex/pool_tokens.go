package dex

import (
	"github.com/canopy-network/canopy-amm/lib"
)

/*
	This file converts between pool tokens and trading tokens.
	'All token types' operations move both reserves in proportion to the pool token amount.
	'Single token type' operations move one reserve by an exact amount and solve the curve for the pool tokens.
	Every rounding decision favors the pool over the caller.
*/

// TradingTokenResult is the pair of trading token amounts matching a pool token amount
type TradingTokenResult struct {
	TokenAAmount uint64 `json:"tokenAAmount"`
	TokenBAmount uint64 `json:"tokenBAmount"`
}

// WithdrawResult is the outcome of burning pool tokens for both trading tokens
type WithdrawResult struct {
	TokenAAmount uint64 `json:"tokenAAmount"`
	TokenBAmount uint64 `json:"tokenBAmount"`
	FeeAmount    uint64 `json:"feeAmount"` // pool tokens paid to the owner instead of burned
}

// WithdrawSingleResult is the outcome of withdrawing an exact amount of one trading token
type WithdrawSingleResult struct {
	PoolTokenAmount uint64 `json:"poolTokenAmount"` // pool tokens the caller gives up, fee included
	FeeAmount       uint64 `json:"feeAmount"`       // pool tokens paid to the owner instead of burned
}

// PoolTokensToTradingTokens() converts pool tokens to a proportional share of both reserves with the declared rounding
func PoolTokensToTradingTokens(poolTokens, poolTokenSupply, reserveA, reserveB uint64, round lib.RoundDirection) (r TradingTokenResult, err lib.ErrorI) {
	if poolTokenSupply == 0 {
		return r, lib.ErrDivisionByZero()
	}
	if r.TokenAAmount, err = lib.CheckedMulDiv(poolTokens, reserveA, poolTokenSupply, round); err != nil {
		return
	}
	r.TokenBAmount, err = lib.CheckedMulDiv(poolTokens, reserveB, poolTokenSupply, round)
	return
}

// ComputeDepositAllTokenTypes() returns the trading tokens a depositor pays to mint poolTokenAmount, rounded up
func ComputeDepositAllTokenTypes(poolTokenAmount, poolTokenSupply, reserveA, reserveB uint64) (TradingTokenResult, lib.ErrorI) {
	return PoolTokensToTradingTokens(poolTokenAmount, poolTokenSupply, reserveA, reserveB, lib.Ceiling)
}

// ComputeWithdrawAllTokenTypes() takes the owner withdraw fee out of poolTokenAmount and converts the rest, rounded down
func ComputeWithdrawAllTokenTypes(poolTokenAmount, poolTokenSupply, reserveA, reserveB uint64, fees FeeConfig) (r WithdrawResult, err lib.ErrorI) {
	if r.FeeAmount, err = fees.OwnerWithdrawFeeOf(poolTokenAmount); err != nil {
		return WithdrawResult{}, err
	}
	burn, err := lib.CheckedSub(poolTokenAmount, r.FeeAmount)
	if err != nil {
		return WithdrawResult{}, err
	}
	tokens, err := PoolTokensToTradingTokens(burn, poolTokenSupply, reserveA, reserveB, lib.Floor)
	if err != nil {
		return WithdrawResult{}, err
	}
	// burning more than the supply can't pay out more than the reserve
	r.TokenAAmount, r.TokenBAmount = min(tokens.TokenAAmount, reserveA), min(tokens.TokenBAmount, reserveB)
	return
}

// ComputeDepositSingleTokenType() returns the pool tokens minted for depositing sourceAmount of the direction's source token
func ComputeDepositSingleTokenType(sourceAmount, swapSourceReserve, poolTokenSupply uint64, curve Curve, direction TradeDirection) (uint64, lib.ErrorI) {
	return DepositSingleTokenType(sourceAmount, swapSourceReserve, poolTokenSupply, direction, curve)
}

// ComputeWithdrawSingleTokenType() returns the pool tokens, owner withdraw fee included, that must be given up to withdraw exactly destinationAmount of the direction's source token
func ComputeWithdrawSingleTokenType(destinationAmount, swapDestinationReserve, poolTokenSupply uint64, curve Curve, fees FeeConfig, direction TradeDirection) (r WithdrawSingleResult, err lib.ErrorI) {
	burn, err := WithdrawSingleTokenType(destinationAmount, swapDestinationReserve, poolTokenSupply, direction, curve)
	if err != nil {
		return
	}
	if r.FeeAmount, err = fees.OwnerWithdrawFeeOf(burn); err != nil {
		return WithdrawSingleResult{}, err
	}
	if r.PoolTokenAmount, err = lib.CheckedAdd(burn, r.FeeAmount); err != nil {
		return WithdrawSingleResult{}, err
	}
	return
}
