package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/alecthomas/units"
	"github.com/canopy-network/canopy-amm/lib"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const (
	colon = ":"

	SoftwareVersion = "0.1.0-alpha"
	ContentType     = "Content-Type"
	ApplicationJSON = "application/json; charset=utf-8"
	localhost       = "localhost"
)

// Server represents the AMM quote RPC server
type Server struct {
	// quote engine shared by every route
	engine *Engine

	// AMM configuration
	config lib.Config

	// telemetry, may be nil
	metrics *lib.Metrics

	// the listening http server once started
	server *http.Server

	logger lib.LoggerI
}

// NewServer constructs and returns a new AMM RPC server
func NewServer(config lib.Config, metrics *lib.Metrics, logger lib.LoggerI) *Server {
	return &Server{
		engine:  NewEngine(config.EngineConfig, metrics),
		config:  config,
		metrics: metrics,
		logger:  logger.With("rpc"),
	}
}

// Handler() returns the router wrapped with the CORS policy and the request timeout
func (s *Server) Handler() http.Handler {
	// Create CORS policy
	cor := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS", "POST"},
	})

	// Create a default timeout for HTTP requests
	timeout := time.Duration(s.config.TimeoutS) * time.Second
	return cor.Handler(http.TimeoutHandler(createRouter(s), timeout, ErrServerTimeout().Error()))
}

// Start starts the RPC server in the background
func (s *Server) Start() {
	s.server = &http.Server{Addr: colon + s.config.RPCPort, Handler: s.Handler()}
	go func() {
		s.logger.Infof("Starting RPC server at 0.0.0.0:%s", s.config.RPCPort)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal(err.Error())
		}
	}()
}

// Stop gracefully stops the RPC server
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.config.TimeoutS)*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error(err.Error())
	}
}

// quoteParams is a helper function to abstract the common workflow of every quote route:
// decode the request, run the callback, record telemetry and write the result
func (s *Server) quoteParams(w http.ResponseWriter, r *http.Request, route string, ptr any, callback func() (any, lib.ErrorI)) {
	if ok := unmarshal(w, r, ptr); !ok {
		s.metrics.UpdateQuoteMetrics(route, 0, lib.NewError(lib.CodeInvalidParams, lib.RPCModule, "malformed request"))
		return
	}
	start := time.Now()
	result, err := callback()
	s.metrics.UpdateQuoteMetrics(route, time.Since(start), err)
	if err != nil {
		s.logger.Debugf("%s quote failed: %s", route, err.Error())
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, result, http.StatusOK)
}

// logHandler serves as a middleware that logs incoming RPC calls for debugging purposes.
type logHandler struct {
	path   string
	logger lib.LoggerI
	h      httprouter.Handle
}

// Handle
func (h logHandler) Handle(resp http.ResponseWriter, req *http.Request, p httprouter.Params) {
	h.logger.Debug(h.path)

	// Call the actual handler function with the response, request, and parameters.
	h.h(resp, req, p)
}

// unmarshal reads request body and unmarshals it into ptr
func unmarshal(w http.ResponseWriter, r *http.Request, ptr interface{}) bool {
	bz, err := io.ReadAll(io.LimitReader(r.Body, int64(units.MB)))
	if err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	defer func() { _ = r.Body.Close() }()
	if err = json.Unmarshal(bz, ptr); err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	return true
}

// write marshaled payload to w
func write(w http.ResponseWriter, payload interface{}, code int) {
	w.Header().Set(ContentType, ApplicationJSON)
	w.WriteHeader(code)

	// Marshal and indent the payload
	bz, _ := json.MarshalIndent(payload, "", "  ")
	_, _ = w.Write(bz)
}
