package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type printFeed struct {
	prints []Print
	err    error
	calls  int
}

func (p *printFeed) FetchTrades(_ context.Context, _ string, fromID int64, start, end time.Time, limit int) ([]Print, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	var out []Print
	for i := range p.prints {
		switch {
		case fromID > 0 && p.prints[i].ID < fromID:
			continue
		case fromID <= 0 && (p.prints[i].Timestamp.Before(start) || !p.prints[i].Timestamp.Before(end)):
			continue
		}
		out = append(out, p.prints[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var fixedNow = time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)

func newTestAggregator(f Fetcher) *Aggregator {
	a := NewAggregator(f)
	a.Now = func() time.Time { return fixedNow }
	return a
}

func TestAtSecondRetentionBoundary(t *testing.T) {
	t.Parallel()

	feed := &printFeed{}
	a := newTestAggregator(feed)

	_, err := a.AtSecond(context.Background(), "BTCUSDT", fixedNow.Add(-7*24*time.Hour-time.Second))
	require.ErrorIs(t, err, ErrRetentionWindowExceeded)
	assert.Zero(t, feed.calls, "no fetch should happen outside retention")

	agg, err := a.AtSecond(context.Background(), "BTCUSDT", fixedNow.Add(-6*24*time.Hour))
	require.NoError(t, err, "AtSecond must not error inside retention")
	assert.Nil(t, agg, "no prints should yield a nil aggregate")
	assert.Equal(t, 1, feed.calls)

	assert.NoError(t, a.CheckRetention(fixedNow.Add(-7*24*time.Hour)), "the boundary itself should be allowed")
}

func TestAtSecondAggregates(t *testing.T) {
	t.Parallel()

	sec := fixedNow.Add(-time.Hour)
	feed := &printFeed{prints: []Print{
		{ID: 1, Price: 99, Timestamp: sec.Add(-time.Millisecond)},
		{ID: 2, Price: 100, Timestamp: sec},
		{ID: 3, Price: 103, Timestamp: sec.Add(200 * time.Millisecond)},
		{ID: 4, Price: 98, Timestamp: sec.Add(500 * time.Millisecond)},
		{ID: 5, Price: 101, Timestamp: sec.Add(999 * time.Millisecond)},
		{ID: 6, Price: 150, Timestamp: sec.Add(time.Second)},
	}}
	a := newTestAggregator(feed)

	agg, err := a.AtSecond(context.Background(), "BTCUSDT", sec.Add(400*time.Millisecond))
	require.NoError(t, err, "AtSecond must not error")
	require.NotNil(t, agg)
	assert.Equal(t, sec, agg.Start)
	assert.Equal(t, 100.0, agg.Open)
	assert.Equal(t, 103.0, agg.High)
	assert.Equal(t, 98.0, agg.Low)
	assert.Equal(t, 101.0, agg.Close)
	assert.Equal(t, 4, agg.Count)
}

func TestAtSecondPaginates(t *testing.T) {
	t.Parallel()

	sec := fixedNow.Add(-time.Hour)
	var prints []Print
	for i := range 25 {
		// pairs of prints share a millisecond so page edges split them
		prints = append(prints, Print{ID: int64(i + 1), Price: float64(100 + i), Timestamp: sec.Add(time.Duration(i/2) * time.Millisecond)})
	}
	feed := &printFeed{prints: prints}
	a := newTestAggregator(feed)
	a.Limit = 10

	agg, err := a.AtSecond(context.Background(), "BTCUSDT", sec)
	require.NoError(t, err, "AtSecond must not error")
	require.NotNil(t, agg)
	assert.Equal(t, 25, agg.Count, "every print should be counted once")
	assert.Equal(t, 100.0, agg.Open)
	assert.Equal(t, 124.0, agg.Close)
	assert.Greater(t, feed.calls, 2)
}

func TestAtSecondFullPageOnOneMillisecond(t *testing.T) {
	t.Parallel()

	sec := fixedNow.Add(-time.Hour)
	var prints []Print
	for i := range 15 {
		prints = append(prints, Print{ID: int64(i + 1), Price: 100, Timestamp: sec})
	}
	for i := range 5 {
		prints = append(prints, Print{ID: int64(i + 16), Price: 200, Timestamp: sec.Add(500 * time.Millisecond)})
	}
	prints = append(prints, Print{ID: 21, Price: 300, Timestamp: sec.Add(time.Second)})
	feed := &printFeed{prints: prints}
	a := newTestAggregator(feed)
	a.Limit = 10

	agg, err := a.AtSecond(context.Background(), "BTCUSDT", sec)
	require.NoError(t, err, "AtSecond must not error")
	require.NotNil(t, agg)
	assert.Equal(t, 20, agg.Count, "prints sharing the page edge millisecond must all be counted")
	assert.Equal(t, 100.0, agg.Open)
	assert.Equal(t, 200.0, agg.High)
	assert.Equal(t, 200.0, agg.Close)
	assert.Equal(t, 3, feed.calls, "paging should stop at the first print past the second")
}

func TestAtSecondMaxPages(t *testing.T) {
	t.Parallel()

	sec := fixedNow.Add(-time.Hour)
	var prints []Print
	for i := range 30 {
		prints = append(prints, Print{ID: int64(i + 1), Price: float64(i), Timestamp: sec})
	}
	feed := &printFeed{prints: prints}
	a := newTestAggregator(feed)
	a.Limit = 10
	a.MaxPages = 2

	agg, err := a.AtSecond(context.Background(), "BTCUSDT", sec)
	require.NoError(t, err, "hitting the page bound must not error")
	require.NotNil(t, agg)
	assert.Equal(t, 20, agg.Count, "only the pages allowed should be collected")
	assert.Equal(t, 2, feed.calls)
}

func TestAtSecondErrors(t *testing.T) {
	t.Parallel()

	var a *Aggregator
	_, err := a.AtSecond(context.Background(), "BTCUSDT", fixedNow)
	assert.ErrorIs(t, err, errNilFetcher)

	fetchErr := errors.New("upstream down")
	a = newTestAggregator(&printFeed{err: fetchErr})
	_, err = a.AtSecond(context.Background(), "BTCUSDT", fixedNow)
	assert.ErrorIs(t, err, fetchErr)
}

func TestSummarise(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Summarise(fixedNow, nil))
	agg := Summarise(fixedNow, []Print{{Price: 5}})
	require.NotNil(t, agg)
	assert.Equal(t, 1, agg.Count)
	assert.Equal(t, agg.Open, agg.Close)
}
