package binance

import (
	"time"

	"github.com/thrasher-corp/pricetrace/exchanges/request"
)

const (
	// USDT-M futures share one IP weight budget of 2400 per minute
	uFuturesInterval    = time.Minute
	uFuturesRequestRate = 2400
)

// Binance USDT-M futures rate limits
const (
	uFuturesDefaultRate request.EndpointLimit = iota
	uFuturesKline100Rate
	uFuturesKline500Rate
	uFuturesKline1000Rate
	uFuturesKlineMaxRate
	uFuturesCompressedTradesRate
	uFuturesFundingRateHistoryRate
	uFuturesExchangeInfoRate
)

// GetRateLimits returns the rate limit for the exchange. Every endpoint draws
// weight from the same bucket.
func GetRateLimits(interval time.Duration, weight int) request.RateLimitDefinitions {
	if interval <= 0 {
		interval = uFuturesInterval
	}
	if weight < 0 {
		weight = uFuturesRequestRate
	}
	uFuturesLimiter := request.NewRateLimit(interval, weight)
	return request.RateLimitDefinitions{
		uFuturesDefaultRate:            request.GetRateLimiterWithWeight(uFuturesLimiter, 1),
		uFuturesKline100Rate:           request.GetRateLimiterWithWeight(uFuturesLimiter, 1),
		uFuturesKline500Rate:           request.GetRateLimiterWithWeight(uFuturesLimiter, 2),
		uFuturesKline1000Rate:          request.GetRateLimiterWithWeight(uFuturesLimiter, 5),
		uFuturesKlineMaxRate:           request.GetRateLimiterWithWeight(uFuturesLimiter, 10),
		uFuturesCompressedTradesRate:   request.GetRateLimiterWithWeight(uFuturesLimiter, 20),
		uFuturesFundingRateHistoryRate: request.GetRateLimiterWithWeight(uFuturesLimiter, 1),
		uFuturesExchangeInfoRate:       request.GetRateLimiterWithWeight(uFuturesLimiter, 1),
	}
}

// klineRate returns the endpoint limit for a kline request of limit rows. An
// unset limit is served as 500 rows upstream, which Binance weighs at 5 like
// every limit in [500, 1000].
func klineRate(limit int) request.EndpointLimit {
	switch {
	case limit <= 0:
		return uFuturesKline1000Rate
	case limit < 100:
		return uFuturesKline100Rate
	case limit < 500:
		return uFuturesKline500Rate
	case limit <= 1000:
		return uFuturesKline1000Rate
	default:
		return uFuturesKlineMaxRate
	}
}
