package rpc

import (
	"github.com/canopy-network/canopy-amm/dex"
	"github.com/canopy-network/canopy-amm/lib"
)

// =====================================================
// Quote Request Types
// =====================================================

// poolRequest carries the pool configuration; nil fields fall back to the engine defaults
type poolRequest struct {
	Curve *lib.CurveParams `json:"curve,omitempty"`
	Fees  *lib.FeeParams   `json:"fees,omitempty"`
}

type SwapRequest struct {
	poolRequest
	SourceAmount           uint64 `json:"sourceAmount"`
	SwapSourceReserve      uint64 `json:"swapSourceReserve"`
	SwapDestinationReserve uint64 `json:"swapDestinationReserve"`
	Direction              string `json:"direction"` // a_to_b or b_to_a
}

type DepositRequest struct {
	poolRequest
	PoolTokenAmount uint64 `json:"poolTokenAmount"`
	PoolTokenSupply uint64 `json:"poolTokenSupply"`
	ReserveA        uint64 `json:"reserveA"`
	ReserveB        uint64 `json:"reserveB"`
}

type WithdrawRequest struct {
	poolRequest
	PoolTokenAmount uint64 `json:"poolTokenAmount"`
	PoolTokenSupply uint64 `json:"poolTokenSupply"`
	ReserveA        uint64 `json:"reserveA"`
	ReserveB        uint64 `json:"reserveB"`
}

type DepositSingleRequest struct {
	poolRequest
	SourceAmount      uint64 `json:"sourceAmount"`
	SwapSourceReserve uint64 `json:"swapSourceReserve"`
	PoolTokenSupply   uint64 `json:"poolTokenSupply"`
	Direction         string `json:"direction"`
}

type WithdrawSingleRequest struct {
	poolRequest
	DestinationAmount      uint64 `json:"destinationAmount"`
	SwapDestinationReserve uint64 `json:"swapDestinationReserve"`
	PoolTokenSupply        uint64 `json:"poolTokenSupply"`
	Direction              string `json:"direction"`
}

type PoolValueRequest struct {
	poolRequest
	ReserveA uint64 `json:"reserveA"`
	ReserveB uint64 `json:"reserveB"`
}

type BatchRequest struct {
	Swaps []SwapRequest `json:"swaps"`
}

type CompareRequest struct {
	Left  SwapRequest `json:"left"`
	Right SwapRequest `json:"right"`
}

// WithCurve() sets the curve of a request
func (p *poolRequest) WithCurve(curve lib.CurveParams) { p.Curve = &curve }

// WithFees() sets the fees of a request
func (p *poolRequest) WithFees(fees lib.FeeParams) { p.Fees = &fees }

// =====================================================
// Quote Response Types
// =====================================================

type SwapResponse struct {
	dex.SwapResult
	Curve  string      `json:"curve"`
	Prices *PriceQuote `json:"prices,omitempty"` // omitted when nothing was swapped
}

// PriceQuote is the decimal decoration of a swap, all prices in destination tokens per source token
type PriceQuote struct {
	SpotPrice      string `json:"spotPrice"`      // reserve ratio before the trade
	EffectivePrice string `json:"effectivePrice"` // destination received over source paid, fees included
	PriceImpact    string `json:"priceImpact"`    // 1 - effective / spot
}

type DepositResponse struct {
	dex.TradingTokenResult
}

type WithdrawResponse struct {
	dex.WithdrawResult
}

type DepositSingleResponse struct {
	PoolTokenAmount uint64 `json:"poolTokenAmount"`
}

type WithdrawSingleResponse struct {
	dex.WithdrawSingleResult
}

type PoolValueResponse struct {
	Curve           string `json:"curve"`
	NormalizedValue uint64 `json:"normalizedValue"`
	AllowsDeposits  bool   `json:"allowsDeposits"`
}

type BatchResult struct {
	Result *SwapResponse `json:"result,omitempty"`
	Error  *lib.Error    `json:"error,omitempty"`
}

type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

type CompareResponse struct {
	Left       *SwapResponse `json:"left"`
	Right      *SwapResponse `json:"right"`
	Difference string        `json:"difference"` // FullMatch, SupersetMatch, NoMatch or FirstArgIsInvalidJson
	Diff       string        `json:"diff"`
}
