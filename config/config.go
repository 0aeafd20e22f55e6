package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"github.com/thrasher-corp/pricetrace/log"
)

var (
	errReadingConfig   = errors.New("error reading config file")
	errDecodingConfig  = errors.New("error decoding config")
	errInvalidBaseURL  = errors.New("invalid upstream base URL")
	errCheckingLogging = errors.New("error configuring logger")
)

// GetDefaultConfig returns a Config with every field at its default
func GetDefaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:           DefaultUpstreamURL,
			UserAgent:         DefaultUserAgent,
			HTTPTimeout:       DefaultHTTPTimeout,
			RateLimitWeight:   DefaultRateLimitWeight,
			RateLimitInterval: DefaultRateLimitInterval,
		},
		Klines: KlinesConfig{
			PageLimit: DefaultKlinePageLimit,
			MaxPages:  DefaultKlineMaxPages,
		},
		Trades: TradesConfig{
			Retention: DefaultTradeRetention,
			PageLimit: DefaultTradePageLimit,
			MaxPages:  DefaultTradeMaxPages,
		},
		Funding: FundingConfig{
			Windows: slices.Clone(DefaultFundingWindows),
			Limit:   DefaultFundingLimit,
		},
		Precision: PrecisionConfig{Default: DefaultPricePrecision},
		Logging:   log.GenDefaultSettings(),
		Webserver: WebserverConfig{
			ListenAddress: DefaultWebserverListenAddr,
			ReadTimeout:   DefaultWebserverReadTimeout,
			WriteTimeout:  DefaultWebserverWriteTimeout,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("upstream.base_url", d.Upstream.BaseURL)
	v.SetDefault("upstream.user_agent", d.Upstream.UserAgent)
	v.SetDefault("upstream.http_timeout", d.Upstream.HTTPTimeout)
	v.SetDefault("upstream.rate_limit_weight", d.Upstream.RateLimitWeight)
	v.SetDefault("upstream.rate_limit_interval", d.Upstream.RateLimitInterval)
	v.SetDefault("upstream.verbose", d.Upstream.Verbose)
	v.SetDefault("upstream.http_debugging", d.Upstream.HTTPDebugging)
	v.SetDefault("klines.page_limit", d.Klines.PageLimit)
	v.SetDefault("klines.max_pages", d.Klines.MaxPages)
	v.SetDefault("trades.retention", d.Trades.Retention)
	v.SetDefault("trades.page_limit", d.Trades.PageLimit)
	v.SetDefault("trades.max_pages", d.Trades.MaxPages)
	v.SetDefault("funding.windows", d.Funding.Windows)
	v.SetDefault("funding.limit", d.Funding.Limit)
	v.SetDefault("precision.default", d.Precision.Default)
	v.SetDefault("logging.enabled", d.Logging.Enabled)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("webserver.enabled", d.Webserver.Enabled)
	v.SetDefault("webserver.listen_address", d.Webserver.ListenAddress)
	v.SetDefault("webserver.read_timeout", d.Webserver.ReadTimeout)
	v.SetDefault("webserver.write_timeout", d.Webserver.WriteTimeout)
}

// LoadConfig reads the optional config file at configPath, applies
// PRICETRACE_ prefixed environment overrides and checks the result. An empty
// path uses defaults and the environment only.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w %s: %w", errReadingConfig, configPath, err)
		}
		log.Infof(log.ConfigMgr, "Using config file %s", configPath)
	}

	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("%w: %w", errDecodingConfig, err)
	}
	if err := c.CheckConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

// CheckConfig checks all config settings, resetting invalid values to their
// defaults with a warning. Only an unusable upstream URL is an error.
func (c *Config) CheckConfig() error {
	if err := c.CheckLoggerConfig(); err != nil {
		log.Errorf(log.ConfigMgr, "Failed to configure logger, some logging features unavailable: %s", err)
	}
	if err := c.CheckUpstreamConfig(); err != nil {
		return err
	}
	c.CheckKlinesConfig()
	c.CheckTradesConfig()
	c.CheckFundingConfig()
	c.CheckPrecisionConfig()
	c.CheckWebserverConfig()
	return nil
}

// CheckLoggerConfig checks to see logger values are set and applies them to
// the global logger
func (c *Config) CheckLoggerConfig() error {
	if c.Logging.Level == "" || c.Logging.Output == "" {
		enabled := c.Logging.Enabled
		c.Logging = log.GenDefaultSettings()
		c.Logging.Enabled = enabled
	}
	if err := log.SetupGlobalLogger(&c.Logging, nil); err != nil {
		def := log.GenDefaultSettings()
		if setupErr := log.SetupGlobalLogger(&def, nil); setupErr != nil {
			return fmt.Errorf("%w: %w", errCheckingLogging, setupErr)
		}
		c.Logging = def
		return fmt.Errorf("%w: %w", errCheckingLogging, err)
	}
	return nil
}

// CheckUpstreamConfig checks the upstream base URL and pacing values
func (c *Config) CheckUpstreamConfig() error {
	c.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(c.Upstream.BaseURL), "/")
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultUpstreamURL
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidBaseURL, c.Upstream.BaseURL)
	}
	if c.Upstream.HTTPTimeout <= 0 {
		log.Warnf(log.ConfigMgr, "Upstream HTTP timeout value %v is invalid, setting to %v", c.Upstream.HTTPTimeout, DefaultHTTPTimeout)
		c.Upstream.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.Upstream.RateLimitWeight < 0 {
		log.Warnf(log.ConfigMgr, "Upstream rate limit weight %d is invalid, setting to %d", c.Upstream.RateLimitWeight, DefaultRateLimitWeight)
		c.Upstream.RateLimitWeight = DefaultRateLimitWeight
	}
	if c.Upstream.RateLimitInterval <= 0 {
		log.Warnf(log.ConfigMgr, "Upstream rate limit interval %v is invalid, setting to %v", c.Upstream.RateLimitInterval, DefaultRateLimitInterval)
		c.Upstream.RateLimitInterval = DefaultRateLimitInterval
	}
	return nil
}

// CheckKlinesConfig checks candle pagination values
func (c *Config) CheckKlinesConfig() {
	if c.Klines.PageLimit <= 0 || c.Klines.PageLimit > DefaultKlinePageLimit {
		log.Warnf(log.ConfigMgr, "Kline page limit %d is invalid, setting to %d", c.Klines.PageLimit, DefaultKlinePageLimit)
		c.Klines.PageLimit = DefaultKlinePageLimit
	}
	if c.Klines.MaxPages <= 0 {
		log.Warnf(log.ConfigMgr, "Kline max pages %d is invalid, setting to %d", c.Klines.MaxPages, DefaultKlineMaxPages)
		c.Klines.MaxPages = DefaultKlineMaxPages
	}
}

// CheckTradesConfig checks trade lookup values
func (c *Config) CheckTradesConfig() {
	if c.Trades.Retention <= 0 {
		log.Warnf(log.ConfigMgr, "Trade retention %v is invalid, setting to %v", c.Trades.Retention, DefaultTradeRetention)
		c.Trades.Retention = DefaultTradeRetention
	}
	if c.Trades.PageLimit <= 0 || c.Trades.PageLimit > DefaultTradePageLimit {
		log.Warnf(log.ConfigMgr, "Trade page limit %d is invalid, setting to %d", c.Trades.PageLimit, DefaultTradePageLimit)
		c.Trades.PageLimit = DefaultTradePageLimit
	}
	if c.Trades.MaxPages <= 0 {
		log.Warnf(log.ConfigMgr, "Trade max pages %d is invalid, setting to %d", c.Trades.MaxPages, DefaultTradeMaxPages)
		c.Trades.MaxPages = DefaultTradeMaxPages
	}
}

// CheckFundingConfig drops non positive search windows and sorts the rest
// narrowest first
func (c *Config) CheckFundingConfig() {
	windows := c.Funding.Windows[:0:0]
	for _, w := range c.Funding.Windows {
		if w <= 0 {
			log.Warnf(log.ConfigMgr, "Funding search window %v is invalid, dropping", w)
			continue
		}
		windows = append(windows, w)
	}
	slices.Sort(windows)
	windows = slices.Compact(windows)
	if len(windows) == 0 {
		log.Warnf(log.ConfigMgr, "No funding search windows set, setting to %v", DefaultFundingWindows)
		windows = slices.Clone(DefaultFundingWindows)
	}
	c.Funding.Windows = windows
	if c.Funding.Limit <= 0 || c.Funding.Limit > DefaultFundingLimit {
		log.Warnf(log.ConfigMgr, "Funding limit %d is invalid, setting to %d", c.Funding.Limit, DefaultFundingLimit)
		c.Funding.Limit = DefaultFundingLimit
	}
}

// CheckPrecisionConfig checks the default price precision
func (c *Config) CheckPrecisionConfig() {
	if c.Precision.Default < 0 {
		log.Warnf(log.ConfigMgr, "Default price precision %d is invalid, setting to %d", c.Precision.Default, DefaultPricePrecision)
		c.Precision.Default = DefaultPricePrecision
	}
}

// CheckWebserverConfig checks webserver values
func (c *Config) CheckWebserverConfig() {
	if c.Webserver.ListenAddress == "" {
		c.Webserver.ListenAddress = DefaultWebserverListenAddr
	}
	if c.Webserver.ReadTimeout <= 0 {
		c.Webserver.ReadTimeout = DefaultWebserverReadTimeout
	}
	if c.Webserver.WriteTimeout <= 0 {
		c.Webserver.WriteTimeout = DefaultWebserverWriteTimeout
	}
}
