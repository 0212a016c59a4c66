package lib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

/* This file implements logic for 'user controlled' configurations of the quote engine, its rpc and its telemetry */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath = "config.json" // the file path for the engine configuration
)

// Config is the structure of the user configuration options for the amm engine
type Config struct {
	MainConfig    // main options spanning over all modules
	RPCConfig     // rpc API options
	EngineConfig  // curve and fee defaults for quotes
	MetricsConfig // telemetry options
	DataDirPath   string `json:"-"` // set at load time from the --data-dir flag
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:    DefaultMainConfig(),
		RPCConfig:     DefaultRPCConfig(),
		EngineConfig:  DefaultEngineConfig(),
		MetricsConfig: DefaultMetricsConfig(),
		DataDirPath:   DefaultDataDirPath(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel string `json:"logLevel"` // any level includes the levels above it: debug < info < warning < error
}

// DefaultMainConfig() sets log level to 'info'
func DefaultMainConfig() MainConfig {
	return MainConfig{LogLevel: "info"}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 {
	switch l := strings.ToLower(m.LogLevel); {
	case strings.Contains(l, "deb"):
		return DebugLevel
	case strings.Contains(l, "inf"):
		return InfoLevel
	case strings.Contains(l, "war"):
		return WarnLevel
	case strings.Contains(l, "err"):
		return ErrorLevel
	default:
		return DebugLevel
	}
}

// RPC CONFIG BELOW

type RPCConfig struct {
	RPCPort  string `json:"rpcPort"`  // the port where the quote rpc server is hosted
	RPCUrl   string `json:"rpcURL"`   // the url the client uses to reach the quote rpc server
	TimeoutS int    `json:"timeoutS"` // the rpc request timeout in seconds
}

// DefaultRPCConfig() serves the quote rpc on localhost:50002
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		RPCPort:  "50002",
		RPCUrl:   "http://localhost:50002",
		TimeoutS: 3,
	}
}

// ENGINE CONFIG BELOW

// CurveParams is the flat, json friendly description of a pricing curve
type CurveParams struct {
	Type           string `json:"type"`                     // constant_product | constant_price | offset | stable
	TokenBPrice    uint64 `json:"tokenBPrice,omitempty"`    // constant_price: amount of token A one token B costs
	TokenBOffset   uint64 `json:"tokenBOffset,omitempty"`   // offset: virtual token B liquidity
	Amp            uint64 `json:"amp,omitempty"`            // stable: amplification coefficient
	TokenADecimals uint8  `json:"tokenADecimals,omitempty"` // stable: decimals of token A
	TokenBDecimals uint8  `json:"tokenBDecimals,omitempty"` // stable: decimals of token B
}

// FeeParams is the flat, json friendly description of the four fee tiers
type FeeParams struct {
	TradeFeeNumerator            uint64 `json:"tradeFeeNumerator"`
	TradeFeeDenominator          uint64 `json:"tradeFeeDenominator"`
	OwnerTradeFeeNumerator       uint64 `json:"ownerTradeFeeNumerator"`
	OwnerTradeFeeDenominator     uint64 `json:"ownerTradeFeeDenominator"`
	OwnerWithdrawFeeNumerator    uint64 `json:"ownerWithdrawFeeNumerator"`
	OwnerWithdrawFeeDenominator  uint64 `json:"ownerWithdrawFeeDenominator"`
	HostFeeNumerator             uint64 `json:"hostFeeNumerator"`
	HostFeeDenominator           uint64 `json:"hostFeeDenominator"`
}

// EngineConfig holds the defaults applied to quotes that omit a curve or fees
type EngineConfig struct {
	DefaultCurve CurveParams `json:"defaultCurve"` // curve used when a request carries none
	DefaultFees  FeeParams   `json:"defaultFees"`  // fees used when a request carries none
	MaxBatchSize int         `json:"maxBatchSize"` // the maximum number of quotes in one batch request
}

// DefaultEngineConfig() is a constant product pool charging 0.25% to the pool and 0.05% to the owner, a fifth of which goes to a host
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultCurve: CurveParams{Type: "constant_product"},
		DefaultFees: FeeParams{
			TradeFeeNumerator:           25,
			TradeFeeDenominator:         10000,
			OwnerTradeFeeNumerator:      5,
			OwnerTradeFeeDenominator:    10000,
			OwnerWithdrawFeeNumerator:   0,
			OwnerWithdrawFeeDenominator: 0,
			HostFeeNumerator:            20,
			HostFeeDenominator:          100,
		},
		MaxBatchSize: 100,
	}
}

// METRICS CONFIG BELOW

// MetricsConfig represents the configuration for the metrics server
type MetricsConfig struct {
	Enabled           bool   `json:"enabled"`           // if the metrics are enabled
	PrometheusAddress string `json:"prometheusAddress"` // the address of the server
}

// DefaultMetricsConfig() returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:           true,
		PrometheusAddress: "0.0.0.0:9090",
	}
}

// DefaultDataDirPath() is $USERHOME/.amm
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(home, ".amm")
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filepath string) ErrorI {
	jsonBytes, err := MarshalJSONIndent(c)
	if err != nil {
		return err
	}
	if e := os.WriteFile(filepath, jsonBytes, os.ModePerm); e != nil {
		return ErrWriteFile(e)
	}
	return nil
}

// NewConfigFromFile() populates a Config object from a JSON file, defaults fill any missing fields
func NewConfigFromFile(filepath string) (Config, ErrorI) {
	fileBytes, err := os.ReadFile(filepath)
	if err != nil {
		return Config{}, ErrReadFile(err)
	}
	c := DefaultConfig()
	if e := json.Unmarshal(fileBytes, &c); e != nil {
		return Config{}, ErrJSONUnmarshal(e)
	}
	return c, nil
}
