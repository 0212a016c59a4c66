package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// AMM RPC Paths
const (
	VersionRoutePath        = "/v1/"
	SwapRoutePath           = "/v1/quote/swap"
	DepositRoutePath        = "/v1/quote/deposit"
	WithdrawRoutePath       = "/v1/quote/withdraw"
	DepositSingleRoutePath  = "/v1/quote/deposit-single"
	WithdrawSingleRoutePath = "/v1/quote/withdraw-single"
	BatchRoutePath          = "/v1/quote/batch"
	CompareRoutePath        = "/v1/quote/compare"
	PoolValueRoutePath      = "/v1/query/pool-value"
	ConfigRoutePath         = "/v1/query/config"
)

const (
	VersionRouteName        = "version"
	SwapRouteName           = "swap"
	DepositRouteName        = "deposit"
	WithdrawRouteName       = "withdraw"
	DepositSingleRouteName  = "deposit-single"
	WithdrawSingleRouteName = "withdraw-single"
	BatchRouteName          = "batch"
	CompareRouteName        = "compare"
	PoolValueRouteName      = "pool-value"
	ConfigRouteName         = "config"
)

// routes contains the method and path for an AMM RPC route
type routes map[string]struct {
	Method string
	Path   string
}

// routePaths is a mapping from route names to their corresponding HTTP methods and paths
var routePaths = routes{
	VersionRouteName:        {Method: http.MethodGet, Path: VersionRoutePath},
	SwapRouteName:           {Method: http.MethodPost, Path: SwapRoutePath},
	DepositRouteName:        {Method: http.MethodPost, Path: DepositRoutePath},
	WithdrawRouteName:       {Method: http.MethodPost, Path: WithdrawRoutePath},
	DepositSingleRouteName:  {Method: http.MethodPost, Path: DepositSingleRoutePath},
	WithdrawSingleRouteName: {Method: http.MethodPost, Path: WithdrawSingleRoutePath},
	BatchRouteName:          {Method: http.MethodPost, Path: BatchRoutePath},
	CompareRouteName:        {Method: http.MethodPost, Path: CompareRoutePath},
	PoolValueRouteName:      {Method: http.MethodPost, Path: PoolValueRoutePath},
	ConfigRouteName:         {Method: http.MethodGet, Path: ConfigRoutePath},
}

// httpRouteHandlers is a custom type that maps strings to httprouter handle functions
type httpRouteHandlers map[string]httprouter.Handle

// createRouter initializes and returns a new HTTP router with predefined route handlers.
func createRouter(s *Server) *httprouter.Router {
	var r = httpRouteHandlers{
		VersionRouteName:        s.Version,
		SwapRouteName:           s.Swap,
		DepositRouteName:        s.Deposit,
		WithdrawRouteName:       s.Withdraw,
		DepositSingleRouteName:  s.DepositSingle,
		WithdrawSingleRouteName: s.WithdrawSingle,
		BatchRouteName:          s.Batch,
		CompareRouteName:        s.Compare,
		PoolValueRouteName:      s.PoolValue,
		ConfigRouteName:         s.Config,
	}

	// Initialize a new router using the httprouter package.
	router := httprouter.New()

	for name, handler := range r {
		// Retrieve the path configuration for the current route name.
		path := routePaths[name]

		// Add the handler for the specific path and HTTP method to the router.
		router.Handle(path.Method, path.Path, logHandler{path.Path, s.logger, handler}.Handle)
	}

	return router
}
