package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const weighted EndpointLimit = 1

func TestNewRateLimit(t *testing.T) {
	t.Parallel()
	r := NewRateLimit(time.Second*10, 5)
	assert.Equal(t, rate.Limit(0.5), r.Limit(), "Limit should be 0.5 per second")
	assert.Equal(t, 5, r.Burst(), "Burst should hold the full interval budget")

	r = NewRateLimit(time.Second, 0)
	assert.Equal(t, rate.Inf, r.Limit(), "zero actions should be unrestricted")

	r = NewRateLimit(0, 69)
	assert.Equal(t, rate.Inf, r.Limit(), "zero interval should be unrestricted")

	r = NewRateLimit(time.Second*2, 1)
	assert.Equal(t, rate.Limit(0.5), r.Limit())
}

func TestRateLimitDefinitionsLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	defs := RateLimitDefinitions{
		weighted: GetRateLimiterWithWeight(NewRateLimit(time.Minute, 10), 4),
		Unset:    nil,
	}
	err := defs.Limit(ctx, EndpointLimit(99))
	assert.ErrorIs(t, err, errEndpointLimitNotFound)

	err = defs.Limit(ctx, Unset)
	assert.ErrorIs(t, err, errSpecificRateLimiterIsNil)

	require.NoError(t, defs.Limit(ctx, weighted), "Limit must not error with budget available")
	require.NoError(t, defs.Limit(ctx, weighted), "Limit must not error with budget available")

	// 8 of 10 spent, a third weight of 4 would need to wait
	err = defs.Limit(WithDelayNotAllowed(ctx), weighted)
	assert.ErrorIs(t, err, ErrDelayNotAllowed)

	tctx, cancel := context.WithTimeout(ctx, time.Millisecond*10)
	defer cancel()
	err = defs.Limit(tctx, weighted)
	assert.Error(t, err, "Limit should error when the wait outlives the context")
}

func TestRateLimitDefinitionsSharedBudget(t *testing.T) {
	t.Parallel()

	shared := NewRateLimit(time.Minute, 12)
	defs := RateLimitDefinitions{
		Unset:    GetRateLimiterWithWeight(shared, 5),
		weighted: GetRateLimiterWithWeight(shared, 10),
	}
	ctx := WithDelayNotAllowed(context.Background())
	require.NoError(t, defs.Limit(ctx, Unset))
	assert.ErrorIs(t, defs.Limit(ctx, weighted), ErrDelayNotAllowed, "shared limiter should be drawn down by both endpoints")
	require.NoError(t, defs.Limit(ctx, Unset))
}

func TestRateLimitDefinitionsWeightExceedsBurst(t *testing.T) {
	t.Parallel()
	defs := RateLimitDefinitions{weighted: GetRateLimiterWithWeight(NewRateLimit(time.Minute, 2), 3)}
	assert.ErrorIs(t, defs.Limit(context.Background(), weighted), errWeightExceedsBurst)
}
