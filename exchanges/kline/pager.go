package kline

import (
	"context"
	"fmt"
	"time"

	"github.com/thrasher-corp/pricetrace/common"
	"github.com/thrasher-corp/pricetrace/log"
)

// NewPager returns a Pager over f with default limits
func NewPager(f Fetcher) *Pager {
	return &Pager{
		Fetcher:  f,
		Interval: OneMin,
		Limit:    DefaultPageLimit,
		MaxPages: DefaultMaxPages,
	}
}

// Run fetches every candle of feed with an open time in [start, end). Pages
// are requested one after another, each starting one interval past the last
// open time received. A guard trip is not an error; the partial series is
// returned with StateGuardTripped.
func (p *Pager) Run(ctx context.Context, symbol string, feed Feed, start, end time.Time) (*PageResult, error) {
	if p == nil || p.Fetcher == nil {
		return nil, errNilFetcher
	}
	if err := feed.Validate(); err != nil {
		return nil, err
	}
	if err := common.StartEndTimeCheck(start, end); err != nil {
		return nil, err
	}

	interval, limit, maxPages := p.Interval, p.Limit, p.MaxPages
	if interval <= 0 {
		interval = OneMin
	}
	if limit <= 0 || limit > DefaultPageLimit {
		limit = DefaultPageLimit
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	buckets := min(TotalCandlesPerInterval(start, end, interval), int64(limit*maxPages))
	res := &PageResult{State: StateRunning, Candles: make([]Candle, 0, buckets)}
	cursor := start
	for res.State == StateRunning {
		if res.Requests >= maxPages {
			res.State = StateGuardTripped
			log.Warnf(log.LookupSys, "%s %s pagination stopped after %d pages at cursor %s, range end %s",
				symbol, feed, res.Requests, cursor.UTC().Format(common.SimpleTimeFormat), end.UTC().Format(common.SimpleTimeFormat))
			break
		}

		page, err := p.Fetcher.FetchCandles(ctx, symbol, feed, interval, cursor, end, limit)
		res.Requests++
		if err != nil {
			return nil, fmt.Errorf("%s %s page %d: %w", symbol, feed, res.Requests, err)
		}
		if len(page) == 0 {
			res.State = StateEmptyPage
			break
		}

		for i := range page {
			if page[i].OpenTime.Before(cursor) || !page[i].OpenTime.Before(end) {
				continue
			}
			res.Candles = append(res.Candles, page[i])
		}

		next := page[len(page)-1].OpenTime.Add(interval.Duration())
		if !next.After(cursor) {
			// Upstream handed back rows behind the cursor, nothing more to gain
			res.State = StateEmptyPage
			break
		}
		cursor = next
		if !cursor.Before(end) {
			res.State = StateExhausted
		}
	}

	log.Debugf(log.LookupSys, "%s %s pagination finished: state %s, %d requests, %d candles",
		symbol, feed, res.State, res.Requests, len(res.Candles))
	return res, nil
}
