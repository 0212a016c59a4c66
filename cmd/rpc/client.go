package rpc

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/canopy-network/canopy-amm/lib"
	"github.com/cenkalti/backoff/v4"
)

// maxRetryElapsed bounds how long a client keeps retrying an unreachable server
const maxRetryElapsed = 10 * time.Second

type Client struct {
	rpcURL  string
	rpcPort string
	client  http.Client
}

func NewClient(rpcURL, rpcPort string) *Client {
	return &Client{rpcURL: rpcURL, rpcPort: rpcPort, client: http.Client{}}
}

func (c *Client) Version() (version *string, err lib.ErrorI) {
	version = new(string)
	err = c.get(VersionRouteName, version)
	return
}

func (c *Client) Config() (p *lib.EngineConfig, err lib.ErrorI) {
	p = new(lib.EngineConfig)
	err = c.get(ConfigRouteName, p)
	return
}

func (c *Client) Swap(req SwapRequest) (p *SwapResponse, err lib.ErrorI) {
	p = new(SwapResponse)
	err = c.request(SwapRouteName, req, p)
	return
}

func (c *Client) Deposit(req DepositRequest) (p *DepositResponse, err lib.ErrorI) {
	p = new(DepositResponse)
	err = c.request(DepositRouteName, req, p)
	return
}

func (c *Client) Withdraw(req WithdrawRequest) (p *WithdrawResponse, err lib.ErrorI) {
	p = new(WithdrawResponse)
	err = c.request(WithdrawRouteName, req, p)
	return
}

func (c *Client) DepositSingle(req DepositSingleRequest) (p *DepositSingleResponse, err lib.ErrorI) {
	p = new(DepositSingleResponse)
	err = c.request(DepositSingleRouteName, req, p)
	return
}

func (c *Client) WithdrawSingle(req WithdrawSingleRequest) (p *WithdrawSingleResponse, err lib.ErrorI) {
	p = new(WithdrawSingleResponse)
	err = c.request(WithdrawSingleRouteName, req, p)
	return
}

func (c *Client) Batch(req BatchRequest) (p *BatchResponse, err lib.ErrorI) {
	p = new(BatchResponse)
	err = c.request(BatchRouteName, req, p)
	return
}

func (c *Client) Compare(req CompareRequest) (p *CompareResponse, err lib.ErrorI) {
	p = new(CompareResponse)
	err = c.request(CompareRouteName, req, p)
	return
}

func (c *Client) PoolValue(req PoolValueRequest) (p *PoolValueResponse, err lib.ErrorI) {
	p = new(PoolValueResponse)
	err = c.request(PoolValueRouteName, req, p)
	return
}

func (c *Client) request(routeName string, req, ptr any) (err lib.ErrorI) {
	bz, err := lib.MarshalJSON(req)
	if err != nil {
		return
	}
	err = c.post(routeName, bz, ptr)
	return
}

func (c *Client) url(routeName string) string {
	// if rpc port is defined then it's a local RPC deployment
	if c.rpcPort != "" {
		return c.rpcURL + colon + c.rpcPort + routePaths[routeName].Path
	}
	// if rpc port is not defined then it's consider a remote RPC deployment
	return c.rpcURL + routePaths[routeName].Path
}

// post() retries transport failures with exponential backoff; a server answer of any status is final
func (c *Client) post(routeName string, json []byte, ptr any) lib.ErrorI {
	var resp *http.Response
	if err := backoff.Retry(func() (e error) {
		resp, e = c.client.Post(c.url(routeName), ApplicationJSON, bytes.NewBuffer(json))
		return
	}, c.backoff()); err != nil {
		return ErrPostRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) get(routeName string, ptr any) lib.ErrorI {
	var resp *http.Response
	if err := backoff.Retry(func() (e error) {
		resp, e = c.client.Get(c.url(routeName))
		return
	}, c.backoff()); err != nil {
		return ErrGetRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) backoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxRetryElapsed
	return b
}

func (c *Client) unmarshal(resp *http.Response, ptr any) lib.ErrorI {
	defer func() { _ = resp.Body.Close() }()
	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrReadBody(err)
	}
	if resp.StatusCode != http.StatusOK {
		// quote failures carry a coded error in the body
		e := new(lib.Error)
		if lib.UnmarshalJSON(bz, e) == nil && e.EModule != "" {
			return e
		}
		return ErrHttpStatus(resp.Status, resp.StatusCode, bz)
	}
	return lib.UnmarshalJSON(bz, ptr)
}
