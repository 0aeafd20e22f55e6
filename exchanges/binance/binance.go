package binance

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/thrasher-corp/pricetrace/exchanges/request"
	"github.com/thrasher-corp/pricetrace/log"
)

const (
	// Name is the exchange name used for the requester and logging
	Name = "Binance"

	// DefaultAPIURL is the USDT-M futures public REST base
	DefaultAPIURL = "https://fapi.binance.com"

	usedWeightHeader = "X-Mbx-Used-Weight-1m"
)

var errEmptyBaseURL = errors.New("base URL cannot be empty")

// Binance is the USDT-M futures public market data client
type Binance struct {
	Name          string
	Verbose       bool
	HTTPDebugging bool

	baseURL    string
	requester  *request.Requester
	usedWeight atomic.Int64
}

// Settings configures a Binance client
type Settings struct {
	BaseURL           string
	UserAgent         string
	HTTPTimeout       time.Duration
	RateLimitWeight   int
	RateLimitInterval time.Duration
	Verbose           bool
	HTTPDebugging     bool
	// HTTPClient overrides the client built from HTTPTimeout when set
	HTTPClient *http.Client
}

// DefaultSettings returns settings matching the public upstream limits
func DefaultSettings() Settings {
	return Settings{
		BaseURL:           DefaultAPIURL,
		HTTPTimeout:       request.DefaultHTTPTimeout,
		RateLimitWeight:   uFuturesRequestRate,
		RateLimitInterval: uFuturesInterval,
	}
}

// New returns a Binance client for the supplied settings
func New(s Settings) (*Binance, error) {
	base := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if base == "" {
		return nil, errEmptyBaseURL
	}
	client := s.HTTPClient
	if client == nil {
		timeout := s.HTTPTimeout
		if timeout <= 0 {
			timeout = request.DefaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	opts := []request.RequesterOption{
		request.WithLimiter(GetRateLimits(s.RateLimitInterval, s.RateLimitWeight)),
	}
	if s.UserAgent != "" {
		opts = append(opts, request.WithUserAgent(s.UserAgent))
	}
	r, err := request.New(Name, client, opts...)
	if err != nil {
		return nil, err
	}
	return &Binance{
		Name:          Name,
		Verbose:       s.Verbose,
		HTTPDebugging: s.HTTPDebugging,
		baseURL:       base,
		requester:     r,
	}, nil
}

// SendHTTPRequest sends an unauthenticated HTTP request and records the IP
// weight upstream reports as used
func (b *Binance) SendHTTPRequest(ctx context.Context, path string, f request.EndpointLimit, result any) error {
	headers := http.Header{}
	item := &request.Item{
		Method:         http.MethodGet,
		Path:           b.baseURL + path,
		Result:         result,
		Verbose:        b.Verbose,
		HTTPDebugging:  b.HTTPDebugging,
		HeaderResponse: &headers,
	}
	err := b.requester.SendPayload(ctx, f, func() (*request.Item, error) {
		return item, nil
	})
	if used := headers.Get(usedWeightHeader); used != "" {
		if n, perr := strconv.ParseInt(used, 10, 64); perr == nil {
			b.usedWeight.Store(n)
			log.Debugf(log.ExchangeSys, "%s used weight %d after %s", b.Name, n, path)
		}
	}
	return err
}

// UsedWeight returns the last IP weight usage reported by upstream, zero
// before any response
func (b *Binance) UsedWeight() int64 {
	return b.usedWeight.Load()
}
