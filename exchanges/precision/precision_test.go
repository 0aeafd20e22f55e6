package precision

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/pricetrace/common"
)

type countingFetcher struct {
	calls atomic.Int32
	fail  atomic.Bool
}

var errFetch = errors.New("exchange info unavailable")

func (c *countingFetcher) FetchPricePrecisions(context.Context) (map[string]int, error) {
	c.calls.Add(1)
	if c.fail.Load() {
		return nil, errFetch
	}
	return map[string]int{"BTCUSDT": 1, "ETHUSDT": 2, "1000PEPEUSDT": 7}, nil
}

func TestGetPrecisionFetchesOnce(t *testing.T) {
	t.Parallel()
	f := &countingFetcher{}
	c := NewCache(f, DefaultPrecision)

	p, err := c.GetPrecision(context.Background(), "BTCUSDT")
	require.NoError(t, err, "GetPrecision must not error")
	assert.Equal(t, 1, p)
	p, err = c.GetPrecision(context.Background(), " btcusdt ")
	require.NoError(t, err, "GetPrecision must not error")
	assert.Equal(t, 1, p)
	assert.Equal(t, int32(1), f.calls.Load(), "metadata should be fetched exactly once")

	_, err = c.GetPrecision(context.Background(), "DOGEUSDT")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
	_, err = c.GetPrecision(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrSymbolEmpty)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestFailuresAreNotMemoised(t *testing.T) {
	t.Parallel()
	f := &countingFetcher{}
	f.fail.Store(true)
	c := NewCache(f, DefaultPrecision)

	_, err := c.GetPrecision(context.Background(), "BTCUSDT")
	require.ErrorIs(t, err, errFetch)

	f.fail.Store(false)
	p, err := c.GetPrecision(context.Background(), "ETHUSDT")
	require.NoError(t, err, "GetPrecision must not error once upstream recovers")
	assert.Equal(t, 2, p)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestGetAllPrecisionsReturnsCopy(t *testing.T) {
	t.Parallel()
	c := NewCache(&countingFetcher{}, DefaultPrecision)
	all, err := c.GetAllPrecisions(context.Background())
	require.NoError(t, err, "GetAllPrecisions must not error")
	require.Len(t, all, 3)
	all["BTCUSDT"] = 9

	p, err := c.GetPrecision(context.Background(), "BTCUSDT")
	require.NoError(t, err, "GetPrecision must not error")
	assert.Equal(t, 1, p, "mutating the returned map should not touch the cache")
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	c := NewCache(&countingFetcher{}, DefaultPrecision)
	for _, tc := range []struct {
		symbol, price, want string
	}{
		{"BTCUSDT", "110123.99", "110123.9"},
		{"ETHUSDT", "4321.999", "4321.99"},
		{"1000PEPEUSDT", "0.0101234567", "0.0101234"},
		{"UNKNOWNUSDT", "1.23999", "1.23"},
	} {
		got, err := c.Truncate(context.Background(), tc.symbol, decimal.RequireFromString(tc.price))
		require.NoError(t, err, "Truncate must not error")
		assert.Equal(t, tc.want, got.String(), tc.symbol)
	}

	nilFetcher := NewCache(nil, -1)
	_, err := nilFetcher.Truncate(context.Background(), "BTCUSDT", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errNilFetcher)
	assert.Equal(t, DefaultPrecision, nilFetcher.defaultPrecision)
}
