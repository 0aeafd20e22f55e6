package config

import (
	"time"

	"github.com/thrasher-corp/pricetrace/log"
)

// Constants declared here are the environment prefix and default values
const (
	EnvPrefix = "PRICETRACE"

	DefaultUpstreamURL           = "https://fapi.binance.com"
	DefaultUserAgent             = "pricetrace"
	DefaultHTTPTimeout           = 15 * time.Second
	DefaultRateLimitWeight       = 2400
	DefaultRateLimitInterval     = time.Minute
	DefaultKlinePageLimit        = 1500
	DefaultKlineMaxPages         = 1000
	DefaultTradeRetention        = 7 * 24 * time.Hour
	DefaultTradePageLimit        = 1000
	DefaultTradeMaxPages         = 100
	DefaultFundingLimit          = 1000
	DefaultPricePrecision        = 2
	DefaultWebserverListenAddr   = "localhost:9052"
	DefaultWebserverReadTimeout  = 10 * time.Second
	DefaultWebserverWriteTimeout = 2 * time.Minute
)

// DefaultFundingWindows are searched narrowest first
var DefaultFundingWindows = []time.Duration{10 * time.Minute, 30 * time.Minute, 90 * time.Minute}

// Config is the overarching object that holds all the information for
// upstream access, lookups, logging and the webserver
type Config struct {
	Upstream  UpstreamConfig  `json:"upstream" mapstructure:"upstream"`
	Klines    KlinesConfig    `json:"klines" mapstructure:"klines"`
	Trades    TradesConfig    `json:"trades" mapstructure:"trades"`
	Funding   FundingConfig   `json:"funding" mapstructure:"funding"`
	Precision PrecisionConfig `json:"precision" mapstructure:"precision"`
	Logging   log.Config      `json:"logging" mapstructure:"logging"`
	Webserver WebserverConfig `json:"webserver" mapstructure:"webserver"`
}

// UpstreamConfig holds the market data API settings
type UpstreamConfig struct {
	BaseURL           string        `json:"baseURL" mapstructure:"base_url"`
	UserAgent         string        `json:"userAgent" mapstructure:"user_agent"`
	HTTPTimeout       time.Duration `json:"httpTimeout" mapstructure:"http_timeout"`
	RateLimitWeight   int           `json:"rateLimitWeight" mapstructure:"rate_limit_weight"`
	RateLimitInterval time.Duration `json:"rateLimitInterval" mapstructure:"rate_limit_interval"`
	Verbose           bool          `json:"verbose" mapstructure:"verbose"`
	HTTPDebugging     bool          `json:"httpDebugging" mapstructure:"http_debugging"`
}

// KlinesConfig holds candle pagination settings
type KlinesConfig struct {
	PageLimit int `json:"pageLimit" mapstructure:"page_limit"`
	MaxPages  int `json:"maxPages" mapstructure:"max_pages"`
}

// TradesConfig holds trade print lookup settings
type TradesConfig struct {
	Retention time.Duration `json:"retention" mapstructure:"retention"`
	PageLimit int           `json:"pageLimit" mapstructure:"page_limit"`
	MaxPages  int           `json:"maxPages" mapstructure:"max_pages"`
}

// FundingConfig holds funding record lookup settings
type FundingConfig struct {
	Windows []time.Duration `json:"windows" mapstructure:"windows"`
	Limit   int             `json:"limit" mapstructure:"limit"`
}

// PrecisionConfig holds price truncation settings
type PrecisionConfig struct {
	Default int `json:"default" mapstructure:"default"`
}

// WebserverConfig holds the REST API settings
type WebserverConfig struct {
	Enabled       bool          `json:"enabled" mapstructure:"enabled"`
	ListenAddress string        `json:"listenAddress" mapstructure:"listen_address"`
	ReadTimeout   time.Duration `json:"readTimeout" mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `json:"writeTimeout" mapstructure:"write_timeout"`
}
