package engine

import (
	"errors"
	"net/http"
	"time"

	"github.com/thrasher-corp/pricetrace/config"
	"github.com/thrasher-corp/pricetrace/exchanges/binance"
	"github.com/thrasher-corp/pricetrace/exchanges/fundingrate"
	"github.com/thrasher-corp/pricetrace/exchanges/kline"
	"github.com/thrasher-corp/pricetrace/exchanges/precision"
	"github.com/thrasher-corp/pricetrace/exchanges/trade"
	"github.com/thrasher-corp/pricetrace/log"
)

var errNilConfig = errors.New("engine: config is nil")

// Engine wires the upstream client into every lookup and is the single
// surface the CLI and the REST server talk to
type Engine struct {
	Config   *config.Config
	Exchange *binance.Binance
	Uptime   time.Time

	candles    kline.Fetcher
	pager      *kline.Pager
	trades     *trade.Aggregator
	funding    *fundingrate.Resolver
	precisions *precision.Cache
}

// New builds an engine from a checked config
func New(cfg *config.Config) (*Engine, error) {
	return newEngine(cfg, nil)
}

// newEngine allows the HTTP client to be replaced
func newEngine(cfg *config.Config, client *http.Client) (*Engine, error) {
	if cfg == nil {
		return nil, errNilConfig
	}
	b, err := binance.New(binance.Settings{
		BaseURL:           cfg.Upstream.BaseURL,
		UserAgent:         cfg.Upstream.UserAgent,
		HTTPTimeout:       cfg.Upstream.HTTPTimeout,
		RateLimitWeight:   cfg.Upstream.RateLimitWeight,
		RateLimitInterval: cfg.Upstream.RateLimitInterval,
		Verbose:           cfg.Upstream.Verbose,
		HTTPDebugging:     cfg.Upstream.HTTPDebugging,
		HTTPClient:        client,
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		Config:   cfg,
		Exchange: b,
		Uptime:   time.Now(),
		candles:  b,
		pager: &kline.Pager{
			Fetcher:  b,
			Interval: kline.OneMin,
			Limit:    cfg.Klines.PageLimit,
			MaxPages: cfg.Klines.MaxPages,
		},
		trades: &trade.Aggregator{
			Fetcher:   b,
			Retention: cfg.Trades.Retention,
			Limit:     cfg.Trades.PageLimit,
			MaxPages:  cfg.Trades.MaxPages,
		},
		funding: &fundingrate.Resolver{
			Fetcher: b,
			Candles: b,
			Windows: cfg.Funding.Windows,
			Limit:   cfg.Funding.Limit,
		},
		precisions: precision.NewCache(b, cfg.Precision.Default),
	}
	log.Debugf(log.Global, "Engine created for upstream %s", cfg.Upstream.BaseURL)
	return e, nil
}
