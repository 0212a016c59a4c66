package rpc

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canopy-network/canopy-amm/lib"
	"github.com/nsf/jsondiff"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *lib.Metrics) {
	t.Helper()
	config := lib.DefaultConfig()
	config.MaxBatchSize = 2
	metrics := lib.NewMetricsServer(config.MetricsConfig, lib.NewNullLogger())
	return NewServer(config, metrics, lib.NewNullLogger()), metrics
}

func TestServerRoutes(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		method   string
		path     string
		body     string
		status   int
		expected string
	}{
		{
			name:     "version",
			detail:   "the software version is a json string",
			method:   http.MethodGet,
			path:     VersionRoutePath,
			status:   http.StatusOK,
			expected: `"0.1.0-alpha"`,
		},
		{
			name:   "swap",
			detail: "a 10% trade into a balanced pool at the default fees",
			method: http.MethodPost,
			path:   SwapRoutePath,
			body:   `{"sourceAmount":100000,"swapSourceReserve":1000000,"swapDestinationReserve":1000000,"direction":"a_to_b"}`,
			status: http.StatusOK,
			expected: `{
				"newSourceReserve": 1100000,
				"newDestinationReserve": 909339,
				"sourceAmountSwapped": 100000,
				"destinationAmountSwapped": 90661,
				"tradeFee": 250,
				"ownerFee": 50,
				"hostFee": 10,
				"curve": "constant_product",
				"prices": {"spotPrice": "1", "effectivePrice": "0.90661", "priceImpact": "0.09339"}
			}`,
		},
		{
			name:     "deposit",
			detail:   "both sides are rounded up",
			method:   http.MethodPost,
			path:     DepositRoutePath,
			body:     `{"poolTokenAmount":100,"poolTokenSupply":1000,"reserveA":1000000,"reserveB":2000001}`,
			status:   http.StatusOK,
			expected: `{"tokenAAmount":100000,"tokenBAmount":200001}`,
		},
		{
			name:     "withdraw",
			detail:   "both sides are rounded down",
			method:   http.MethodPost,
			path:     WithdrawRoutePath,
			body:     `{"poolTokenAmount":100,"poolTokenSupply":1000,"reserveA":1000000,"reserveB":2000001}`,
			status:   http.StatusOK,
			expected: `{"tokenAAmount":100000,"tokenBAmount":200000,"feeAmount":0}`,
		},
		{
			name:     "deposit single",
			detail:   "supply * (sqrt(1.1) - 1)",
			method:   http.MethodPost,
			path:     DepositSingleRoutePath,
			body:     `{"sourceAmount":100000,"swapSourceReserve":1000000,"poolTokenSupply":1000000000,"direction":"a_to_b"}`,
			status:   http.StatusOK,
			expected: `{"poolTokenAmount":48808848}`,
		},
		{
			name:     "withdraw single",
			detail:   "supply * (1 - sqrt(0.9)) rounded up",
			method:   http.MethodPost,
			path:     WithdrawSingleRoutePath,
			body:     `{"destinationAmount":100000,"swapDestinationReserve":1000000,"poolTokenSupply":1000000000,"direction":"b_to_a"}`,
			status:   http.StatusOK,
			expected: `{"poolTokenAmount":51316702,"feeAmount":0}`,
		},
		{
			name:     "pool value",
			detail:   "the geometric mean of the reserves",
			method:   http.MethodPost,
			path:     PoolValueRoutePath,
			body:     `{"reserveA":1000000,"reserveB":4000000}`,
			status:   http.StatusOK,
			expected: `{"curve":"constant_product","normalizedValue":2000000,"allowsDeposits":true}`,
		},
		{
			name:     "quote failure",
			detail:   "coded dex errors are returned with a bad request status",
			method:   http.MethodPost,
			path:     SwapRoutePath,
			body:     `{"sourceAmount":100000,"swapSourceReserve":1000000,"swapDestinationReserve":1000000,"direction":"up"}`,
			status:   http.StatusBadRequest,
			expected: `{"code":8,"module":"dex","msg":"invalid trade direction \"up\""}`,
		},
		{
			name:     "batch too large",
			detail:   "the batch size is capped by the configuration",
			method:   http.MethodPost,
			path:     BatchRoutePath,
			body:     `{"swaps":[{},{},{}]}`,
			status:   http.StatusBadRequest,
			expected: `{"code":7,"module":"rpc","msg":"batch of 3 quotes exceeds the maximum of 2"}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			req := httptest.NewRequest(test.method, test.path, bytes.NewBufferString(test.body))
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			require.Equal(t, test.status, w.Code, test.detail)
			require.Equal(t, ApplicationJSON, w.Header().Get(ContentType))
			opts := jsondiff.DefaultConsoleOptions()
			difference, diff := jsondiff.Compare([]byte(test.expected), w.Body.Bytes(), &opts)
			require.Equal(t, jsondiff.FullMatch, difference, diff)
		})
	}
}

func TestServerMalformedRequest(t *testing.T) {
	s, metrics := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, SwapRoutePath, bytes.NewBufferString(`{"sourceAmount":-1}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := new(lib.Error)
	require.NoError(t, lib.UnmarshalJSON(w.Body.Bytes(), e))
	require.Equal(t, lib.CodeInvalidParams, e.Code())
	require.Equal(t, lib.RPCModule, e.Module())
	// malformed requests are still counted
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.QuotesTotal.WithLabelValues(SwapRouteName)))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.QuoteErrors.WithLabelValues(SwapRouteName, "rpc", "2")))
}

func TestServerRecordsSwapMetrics(t *testing.T) {
	s, metrics := newTestServer(t)
	body := `{"sourceAmount":100000,"swapSourceReserve":1000000,"swapDestinationReserve":1000000,"direction":"a_to_b"}`
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, SwapRoutePath, bytes.NewBufferString(body)))
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, float64(2), testutil.ToFloat64(metrics.QuotesTotal.WithLabelValues(SwapRouteName)))
	require.Equal(t, float64(200_000), testutil.ToFloat64(metrics.SwapVolume.WithLabelValues("constant_product")))
}

func TestClient(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	c := NewClient(ts.URL, "")

	version, err := c.Version()
	require.NoError(t, err)
	require.Equal(t, SoftwareVersion, *version)

	config, err := c.Config()
	require.NoError(t, err)
	require.Equal(t, s.config.EngineConfig, *config)

	swap, err := c.Swap(pinnedSwap())
	require.NoError(t, err)
	require.Equal(t, uint64(90_661), swap.DestinationAmountSwapped)
	require.Equal(t, "0.09339", swap.Prices.PriceImpact)

	compare, err := c.Compare(CompareRequest{Left: pinnedSwap(), Right: pinnedSwap()})
	require.NoError(t, err)
	require.Equal(t, "FullMatch", compare.Difference)

	// coded server errors are returned as they were raised
	_, err = c.Batch(BatchRequest{Swaps: make([]SwapRequest, 3)})
	require.Error(t, err)
	require.Equal(t, lib.CodeBatchTooLarge, err.Code())
	require.Equal(t, lib.RPCModule, err.Module())
}

func TestClientHttpStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream unavailable")
	}))
	defer ts.Close()
	_, err := NewClient(ts.URL, "").Swap(pinnedSwap())
	require.Error(t, err)
	require.Equal(t, lib.CodeHttpStatus, err.Code())
}
