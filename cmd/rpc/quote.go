package rpc

import (
	"net/http"

	"github.com/canopy-network/canopy-amm/lib"
	"github.com/julienschmidt/httprouter"
)

// Version writes the software's version information
func (s *Server) Version(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, SoftwareVersion, http.StatusOK)
}

// Config writes the engine defaults applied to requests without a curve or fees
func (s *Server) Config(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, s.config.EngineConfig, http.StatusOK)
}

// Swap quotes a trade
func (s *Server) Swap(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(SwapRequest)
	s.quoteParams(w, r, SwapRouteName, req, func() (any, lib.ErrorI) {
		return s.engine.Swap(*req)
	})
}

// Deposit quotes a deposit of both trading tokens
func (s *Server) Deposit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(DepositRequest)
	s.quoteParams(w, r, DepositRouteName, req, func() (any, lib.ErrorI) {
		return s.engine.Deposit(*req)
	})
}

// Withdraw quotes a withdrawal of both trading tokens
func (s *Server) Withdraw(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(WithdrawRequest)
	s.quoteParams(w, r, WithdrawRouteName, req, func() (any, lib.ErrorI) {
		return s.engine.Withdraw(*req)
	})
}

// DepositSingle quotes a deposit of one trading token
func (s *Server) DepositSingle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(DepositSingleRequest)
	s.quoteParams(w, r, DepositSingleRouteName, req, func() (any, lib.ErrorI) {
		return s.engine.DepositSingle(*req)
	})
}

// WithdrawSingle quotes a withdrawal of one trading token
func (s *Server) WithdrawSingle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(WithdrawSingleRequest)
	s.quoteParams(w, r, WithdrawSingleRouteName, req, func() (any, lib.ErrorI) {
		return s.engine.WithdrawSingle(*req)
	})
}

// Batch quotes many swaps in one request
func (s *Server) Batch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(BatchRequest)
	s.quoteParams(w, r, BatchRouteName, req, func() (any, lib.ErrorI) {
		return s.engine.Batch(*req)
	})
}

// Compare quotes two swaps and returns the difference between them
func (s *Server) Compare(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(CompareRequest)
	s.quoteParams(w, r, CompareRouteName, req, func() (any, lib.ErrorI) {
		return s.engine.Compare(*req)
	})
}

// PoolValue responds with the normalized value of a pool
func (s *Server) PoolValue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(PoolValueRequest)
	s.quoteParams(w, r, PoolValueRouteName, req, func() (any, lib.ErrorI) {
		return s.engine.PoolValue(*req)
	})
}
