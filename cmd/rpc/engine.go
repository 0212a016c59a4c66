package rpc

import (
	"errors"
	"runtime"

	"github.com/canopy-network/canopy-amm/dex"
	"github.com/canopy-network/canopy-amm/lib"
	"github.com/nsf/jsondiff"
	"golang.org/x/sync/errgroup"
)

// Engine resolves quote requests against the configured defaults and computes them with the dex package
// it holds no pool state; every request carries the snapshot it is priced against
type Engine struct {
	config  lib.EngineConfig
	metrics *lib.Metrics
}

// NewEngine() creates a quote engine; metrics may be nil
func NewEngine(config lib.EngineConfig, metrics *lib.Metrics) *Engine {
	return &Engine{config: config, metrics: metrics}
}

// Swap() quotes a trade and decorates it with decimal prices
func (e *Engine) Swap(req SwapRequest) (*SwapResponse, lib.ErrorI) {
	curve, fees, err := e.pool(req.poolRequest)
	if err != nil {
		return nil, err
	}
	direction, err := dex.ParseTradeDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	result, err := dex.ComputeSwap(req.SourceAmount, req.SwapSourceReserve, req.SwapDestinationReserve, direction, curve, fees)
	if err != nil {
		return nil, err
	}
	e.metrics.UpdateSwapMetrics(string(curve.Type()), result.SourceAmountSwapped, result.TradeFee, result.OwnerFee, result.HostFee)
	response := &SwapResponse{SwapResult: result, Curve: string(curve.Type())}
	if result.SourceAmountSwapped == 0 {
		return response, nil
	}
	spot, err := dex.SpotPrice(req.SwapSourceReserve, req.SwapDestinationReserve, direction, curve)
	if err != nil {
		return nil, err
	}
	effective := dex.EffectivePrice(result)
	response.Prices = &PriceQuote{
		SpotPrice:      spot.String(),
		EffectivePrice: effective.String(),
		PriceImpact:    dex.PriceImpact(spot, effective).String(),
	}
	return response, nil
}

// Deposit() quotes the trading tokens needed to mint pool tokens on both sides
func (e *Engine) Deposit(req DepositRequest) (*DepositResponse, lib.ErrorI) {
	curve, _, err := e.pool(req.poolRequest)
	if err != nil {
		return nil, err
	}
	if !dex.AllowsDeposits(curve) {
		return nil, dex.ErrUnsupportedOperation(curve.Type(), "deposit")
	}
	result, err := dex.ComputeDepositAllTokenTypes(req.PoolTokenAmount, req.PoolTokenSupply, req.ReserveA, req.ReserveB)
	if err != nil {
		return nil, err
	}
	return &DepositResponse{result}, nil
}

// Withdraw() quotes the trading tokens paid out for burning pool tokens on both sides
func (e *Engine) Withdraw(req WithdrawRequest) (*WithdrawResponse, lib.ErrorI) {
	_, fees, err := e.pool(req.poolRequest)
	if err != nil {
		return nil, err
	}
	result, err := dex.ComputeWithdrawAllTokenTypes(req.PoolTokenAmount, req.PoolTokenSupply, req.ReserveA, req.ReserveB, fees)
	if err != nil {
		return nil, err
	}
	return &WithdrawResponse{result}, nil
}

// DepositSingle() quotes the pool tokens minted for a one sided deposit
func (e *Engine) DepositSingle(req DepositSingleRequest) (*DepositSingleResponse, lib.ErrorI) {
	curve, _, err := e.pool(req.poolRequest)
	if err != nil {
		return nil, err
	}
	direction, err := dex.ParseTradeDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	minted, err := dex.ComputeDepositSingleTokenType(req.SourceAmount, req.SwapSourceReserve, req.PoolTokenSupply, curve, direction)
	if err != nil {
		return nil, err
	}
	return &DepositSingleResponse{PoolTokenAmount: minted}, nil
}

// WithdrawSingle() quotes the pool tokens burned, fee included, for a one sided withdrawal
func (e *Engine) WithdrawSingle(req WithdrawSingleRequest) (*WithdrawSingleResponse, lib.ErrorI) {
	curve, fees, err := e.pool(req.poolRequest)
	if err != nil {
		return nil, err
	}
	direction, err := dex.ParseTradeDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	result, err := dex.ComputeWithdrawSingleTokenType(req.DestinationAmount, req.SwapDestinationReserve, req.PoolTokenSupply, curve, fees, direction)
	if err != nil {
		return nil, err
	}
	return &WithdrawSingleResponse{result}, nil
}

// PoolValue() returns the curve's normalized value of a pool
func (e *Engine) PoolValue(req PoolValueRequest) (*PoolValueResponse, lib.ErrorI) {
	curve, _, err := e.pool(req.poolRequest)
	if err != nil {
		return nil, err
	}
	value, err := dex.NormalizedValue(req.ReserveA, req.ReserveB, curve)
	if err != nil {
		return nil, err
	}
	return &PoolValueResponse{Curve: string(curve.Type()), NormalizedValue: value, AllowsDeposits: dex.AllowsDeposits(curve)}, nil
}

// Batch() quotes independent swaps concurrently; a failed quote doesn't fail the batch
func (e *Engine) Batch(req BatchRequest) (*BatchResponse, lib.ErrorI) {
	if len(req.Swaps) > e.config.MaxBatchSize {
		return nil, ErrBatchTooLarge(len(req.Swaps), e.config.MaxBatchSize)
	}
	results := make([]BatchResult, len(req.Swaps))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range req.Swaps {
		i := i
		g.Go(func() error {
			r, err := e.Swap(req.Swaps[i])
			if err != nil {
				results[i].Error = asError(err)
				return nil
			}
			results[i].Result = r
			return nil
		})
	}
	_ = g.Wait()
	return &BatchResponse{Results: results}, nil
}

// Compare() quotes two swaps and diffs their results
func (e *Engine) Compare(req CompareRequest) (*CompareResponse, lib.ErrorI) {
	response := new(CompareResponse)
	var g errgroup.Group
	g.Go(func() error {
		r, err := e.Swap(req.Left)
		if err != nil {
			return err
		}
		response.Left = r
		return nil
	})
	g.Go(func() error {
		r, err := e.Swap(req.Right)
		if err != nil {
			return err
		}
		response.Right = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, asError(err)
	}
	j1, err := lib.MarshalJSON(response.Left)
	if err != nil {
		return nil, err
	}
	j2, err := lib.MarshalJSON(response.Right)
	if err != nil {
		return nil, err
	}
	opts := jsondiff.DefaultJSONOptions()
	difference, diff := jsondiff.Compare(j1, j2, &opts)
	response.Difference, response.Diff = difference.String(), diff
	return response, nil
}

// pool() decodes and validates the request's curve and fees, falling back to the configured defaults
func (e *Engine) pool(p poolRequest) (dex.Curve, dex.FeeConfig, lib.ErrorI) {
	curveParams, feeParams := e.config.DefaultCurve, e.config.DefaultFees
	if p.Curve != nil {
		curveParams = *p.Curve
	}
	if p.Fees != nil {
		feeParams = *p.Fees
	}
	curve, err := dex.NewCurve(curveParams)
	if err != nil {
		return nil, dex.FeeConfig{}, err
	}
	fees := dex.NewFeeConfig(feeParams)
	if err = fees.Validate(); err != nil {
		return nil, dex.FeeConfig{}, err
	}
	return curve, fees, nil
}

// asError() converts an error to its wire form
func asError(err error) *lib.Error {
	var e *lib.Error
	if errors.As(err, &e) {
		return e
	}
	return lib.NewError(lib.NoCode, lib.MainModule, err.Error())
}
