package lib

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/* This file implements dev-ops telemetry for the engine in the form of prometheus metrics */

const metricsPattern = "/metrics"

// Metrics represents a server that exposes Prometheus metrics
type Metrics struct {
	server   *http.Server         // the http prometheus server
	config   MetricsConfig        // the configuration
	registry *prometheus.Registry // the collectors of this instance
	log      LoggerI              // the logger

	NodeMetrics  // general telemetry about the process
	QuoteMetrics // quote telemetry
	SwapMetrics  // swap telemetry
}

// NodeMetrics represents general telemetry for the process health
type NodeMetrics struct {
	NodeStatus prometheus.Gauge // is the engine alive?
}

// QuoteMetrics represents the telemetry of every quote route
type QuoteMetrics struct {
	QuotesTotal  *prometheus.CounterVec   // how many quotes were requested per route?
	QuoteErrors  *prometheus.CounterVec   // how many quotes failed per route and error code?
	QuoteLatency *prometheus.HistogramVec // how long does a quote take per route?
}

// SwapMetrics represents the telemetry of quoted swaps
type SwapMetrics struct {
	SwapVolume    *prometheus.CounterVec // how many source tokens were quoted per curve?
	FeesCollected *prometheus.CounterVec // how many source tokens were quoted as fees per tier?
}

// NewMetricsServer() creates a new telemetry server
func NewMetricsServer(config MetricsConfig, logger LoggerI) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	mux := http.NewServeMux()
	mux.Handle(metricsPattern, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Metrics{
		server:   &http.Server{Addr: config.PrometheusAddress, Handler: mux},
		config:   config,
		registry: registry,
		log:      logger,
		NodeMetrics: NodeMetrics{
			NodeStatus: factory.NewGauge(prometheus.GaugeOpts{
				Name: "amm_node_status",
				Help: "The engine is alive and serving quotes",
			}),
		},
		QuoteMetrics: QuoteMetrics{
			QuotesTotal: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "amm_quotes_total",
				Help: "Total number of quotes requested",
			}, []string{"route"}),
			QuoteErrors: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "amm_quote_errors_total",
				Help: "Total number of failed quotes",
			}, []string{"route", "module", "code"}),
			QuoteLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "amm_quote_latency_seconds",
				Help:    "Time to compute a quote in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			}, []string{"route"}),
		},
		SwapMetrics: SwapMetrics{
			SwapVolume: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "amm_swap_source_volume",
				Help: "Source tokens taken by quoted swaps",
			}, []string{"curve"}),
			FeesCollected: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "amm_swap_fees",
				Help: "Source tokens charged as fees by quoted swaps",
			}, []string{"tier"}),
		},
	}
}

// Registry() exposes the collectors of this instance
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Start() starts the telemetry server
func (m *Metrics) Start() {
	// exit if empty
	if m == nil {
		return
	}
	m.NodeStatus.Set(1)
	// if the metrics server is enabled
	if m.config.Enabled {
		go func() {
			m.log.Infof("Starting metrics server on %s", m.config.PrometheusAddress)
			// run the server
			if err := m.server.ListenAndServe(); err != nil {
				if err != http.ErrServerClosed {
					m.log.Errorf("Metrics server failed with err: %s", err.Error())
				}
			}
		}()
	}
}

// Stop() gracefully stops the telemetry server
func (m *Metrics) Stop() {
	// exit if empty
	if m == nil {
		return
	}
	m.NodeStatus.Set(0)
	// if the metrics server isn't enabled
	if m.config.Enabled {
		// shutdown the server
		if err := m.server.Shutdown(context.Background()); err != nil {
			m.log.Error(err.Error())
		}
	}
}

// UpdateQuoteMetrics() records one quote on a route and its outcome
func (m *Metrics) UpdateQuoteMetrics(route string, duration time.Duration, err ErrorI) {
	// exit if empty
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(route).Inc()
	m.QuoteLatency.WithLabelValues(route).Observe(duration.Seconds())
	if err != nil {
		m.QuoteErrors.WithLabelValues(route, string(err.Module()), strconv.FormatUint(uint64(err.Code()), 10)).Inc()
	}
}

// UpdateSwapMetrics() records the source volume and fee tiers of a quoted swap
func (m *Metrics) UpdateSwapMetrics(curve string, sourceAmountSwapped, tradeFee, ownerFee, hostFee uint64) {
	// exit if empty
	if m == nil {
		return
	}
	m.SwapVolume.WithLabelValues(curve).Add(float64(sourceAmountSwapped))
	m.FeesCollected.WithLabelValues("trade").Add(float64(tradeFee))
	m.FeesCollected.WithLabelValues("owner").Add(float64(ownerFee))
	m.FeesCollected.WithLabelValues("host").Add(float64(hostFee))
}
