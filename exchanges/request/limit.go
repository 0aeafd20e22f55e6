package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Unset is the zero endpoint limit. Exchanges number their own endpoint
// limits from it.
const Unset EndpointLimit = 0

// Public rate limit errors
var (
	ErrDelayNotAllowed = errors.New("delay not allowed")
)

var (
	errSpecificRateLimiterIsNil = errors.New("specific rate limiter is nil")
	errEndpointLimitNotFound    = errors.New("endpoint limit not found")
	errWeightExceedsBurst       = errors.New("request weight exceeds limiter burst")
)

// EndpointLimit defines individual endpoint rate limits that are set when
// New is called.
type EndpointLimit uint16

// Weight defines the number of reservations to be used. This is a generalised
// weight for rate limiting. e.g. n weight = n request. i.e. 50 Weight = 50
// requests.
type Weight uint8

// Limiter interface groups rate limit functionality defined in the REST
// wrapper for extended rate limiting configuration i.e. Shells of rate
// limits with a global rate for sub rates.
type Limiter interface {
	Limit(context.Context, EndpointLimit) error
}

// RateLimiterWithWeight is a rate limiter coupled with a weight count which
// refers to the number or weighting of the request. This is used to define
// the rate limit for a specific endpoint.
type RateLimiterWithWeight struct {
	endpoint *rate.Limiter
	weight   Weight
}

// RateLimitDefinitions is a map of endpoint limits to rate limiters
type RateLimitDefinitions map[EndpointLimit]*RateLimiterWithWeight

// NewRateLimit creates a new RateLimit based of time interval and how many
// actions allowed and breaks it down to an actions-per-second basis. Burst
// is the full action budget of the interval so that weighted reservations
// up to that budget can be made.
func NewRateLimit(interval time.Duration, actions int) *rate.Limiter {
	if actions <= 0 || interval <= 0 {
		// Returns an un-restricted rate limiter
		return rate.NewLimiter(rate.Inf, 1)
	}

	i := 1 / interval.Seconds()
	rps := i * float64(actions)
	return rate.NewLimiter(rate.Limit(rps), actions)
}

// GetRateLimiterWithWeight couples a rate limiter with a weight count so that
// several endpoints can draw on one shared budget
func GetRateLimiterWithWeight(l *rate.Limiter, weight Weight) *RateLimiterWithWeight {
	return &RateLimiterWithWeight{l, weight}
}

// Limit blocks until the weight of the endpoint can be reserved from its
// limiter, or returns ErrDelayNotAllowed when the context forbids waiting
func (r RateLimitDefinitions) Limit(ctx context.Context, ep EndpointLimit) error {
	rl, ok := r[ep]
	if !ok {
		return fmt.Errorf("%w for endpoint %d", errEndpointLimitNotFound, ep)
	}
	if rl == nil || rl.endpoint == nil {
		return fmt.Errorf("%w for endpoint %d", errSpecificRateLimiterIsNil, ep)
	}
	n := int(rl.weight)
	if n <= 0 {
		n = 1
	}
	if rl.endpoint.Limit() != rate.Inf && n > rl.endpoint.Burst() {
		return fmt.Errorf("%w: weight %d burst %d", errWeightExceedsBurst, n, rl.endpoint.Burst())
	}

	if hasDelayNotAllowed(ctx) {
		reservation := rl.endpoint.ReserveN(time.Now(), n)
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			return fmt.Errorf("%w: endpoint %d requires a %s wait", ErrDelayNotAllowed, ep, delay)
		}
		return nil
	}
	return rl.endpoint.WaitN(ctx, n)
}
