package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/pricetrace/common"
	"github.com/thrasher-corp/pricetrace/common/timeperiods"
	"github.com/thrasher-corp/pricetrace/exchanges/fundingrate"
	"github.com/thrasher-corp/pricetrace/exchanges/kline"
	"github.com/thrasher-corp/pricetrace/exchanges/trade"
	"github.com/thrasher-corp/pricetrace/log"
	"golang.org/x/sync/errgroup"
)

// parseSymbolTime validates the symbol and timestamp before anything is
// fetched
func parseSymbolTime(symbol, at string) (string, time.Time, error) {
	s, err := common.FormatSymbol(symbol)
	if err != nil {
		return "", time.Time{}, err
	}
	t, err := timeperiods.ParseUTC(at)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, t, nil
}

// GetTriggerMinuteCandles returns the mark and last price candles of the
// minute containing at. Both feeds are fetched concurrently.
func (e *Engine) GetTriggerMinuteCandles(ctx context.Context, symbol, at string) (*TriggerCandles, error) {
	s, t, err := parseSymbolTime(symbol, at)
	if err != nil {
		return nil, err
	}
	window := timeperiods.ContainingWindow(t, timeperiods.Minute)
	resp := &TriggerCandles{Symbol: s, OpenTime: window.Start}

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(feed kline.Feed, dst **kline.Candle) func() error {
		return func() error {
			candles, err := e.candles.FetchCandles(gctx, s, feed, kline.OneMin, window.Start, window.End, 1)
			if err != nil {
				return fmt.Errorf("%s %s candle at %s: %w", s, feed, timeperiods.FormatUTC(window.Start), err)
			}
			for i := range candles {
				if window.Contains(candles[i].OpenTime) {
					c := candles[i]
					*dst = &c
					break
				}
			}
			return nil
		}
	}
	g.Go(fetch(kline.MarkPrice, &resp.MarkPrice))
	g.Go(fetch(kline.LastPrice, &resp.LastPrice))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetRangeHighLow returns the extrema of both feeds over every minute bucket
// overlapping the inclusive range from..to. Each feed is paginated
// sequentially while the two feeds run concurrently. Extreme instants are
// reported inside from..to even when the bucket opened earlier.
func (e *Engine) GetRangeHighLow(ctx context.Context, symbol, from, to string) (*RangeHighLow, error) {
	s, start, err := parseSymbolTime(symbol, from)
	if err != nil {
		return nil, err
	}
	end, err := timeperiods.ParseUTC(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %s is before %s", common.ErrInvalidRange, to, from)
	}
	firstBucket, err := timeperiods.FloorToMinute(from)
	if err != nil {
		return nil, err
	}
	lastBucket, err := timeperiods.FloorToMinute(to)
	if err != nil {
		return nil, err
	}
	rng := timeperiods.TimeRange{
		Start: common.UnixMillisToTime(firstBucket),
		End:   common.UnixMillisToTime(lastBucket).Add(timeperiods.Minute),
	}

	var mark, last *kline.PageResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mark, err = e.pager.Run(gctx, s, kline.MarkPrice, rng.Start, rng.End)
		return err
	})
	g.Go(func() error {
		var err error
		last, err = e.pager.Run(gctx, s, kline.LastPrice, rng.Start, rng.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range []*kline.PageResult{mark, last} {
		if res.State == kline.StateGuardTripped {
			log.Warnf(log.LookupSys, "%s range %s..%s is partial, page guard tripped after %d requests",
				s, timeperiods.FormatUTC(rng.Start), timeperiods.FormatUTC(rng.End), res.Requests)
		}
	}

	extrema, err := kline.CalculateRangeExtrema(mark.Candles, last.Candles)
	if err != nil {
		return nil, fmt.Errorf("%s %s..%s: %w", s, timeperiods.FormatUTC(rng.Start), timeperiods.FormatUTC(rng.End), err)
	}
	extrema.ClampTimes(start, end)
	return &RangeHighLow{Symbol: s, Start: rng.Start, End: rng.End, RangeExtrema: extrema}, nil
}

// GetLastPriceAtSecond aggregates the trade prints of the second containing
// at. A second with no trades returns nil without error.
func (e *Engine) GetLastPriceAtSecond(ctx context.Context, symbol, at string) (*trade.Aggregate, error) {
	s, err := common.FormatSymbol(symbol)
	if err != nil {
		return nil, err
	}
	second, err := timeperiods.FloorToSecond(at)
	if err != nil {
		return nil, err
	}
	return e.trades.AtSecond(ctx, s, common.UnixMillisToTime(second))
}

// GetNearestFunding returns the funding record closest to at, deriving the
// mark price from the traded price when the record has none
func (e *Engine) GetNearestFunding(ctx context.Context, symbol, at string) (*fundingrate.Record, error) {
	s, t, err := parseSymbolTime(symbol, at)
	if err != nil {
		return nil, err
	}
	return e.funding.Nearest(ctx, s, t)
}

// ResolveMarkPriceFallback derives a mark price substitute for fundingTime.
// It returns nil without error when no traded candle exists.
func (e *Engine) ResolveMarkPriceFallback(ctx context.Context, symbol string, fundingTime time.Time) (*fundingrate.DerivedPrice, error) {
	s, err := common.FormatSymbol(symbol)
	if err != nil {
		return nil, err
	}
	return e.funding.MarkPriceFallback(ctx, s, fundingTime)
}

// GetPrecision returns the price precision of symbol
func (e *Engine) GetPrecision(ctx context.Context, symbol string) (int, error) {
	return e.precisions.GetPrecision(ctx, symbol)
}

// GetAllPrecisions returns a copy of every known price precision
func (e *Engine) GetAllPrecisions(ctx context.Context) (map[string]int, error) {
	return e.precisions.GetAllPrecisions(ctx)
}

// TruncatePrice cuts price to the precision of symbol without rounding
func (e *Engine) TruncatePrice(ctx context.Context, symbol string, price decimal.Decimal) (decimal.Decimal, error) {
	return e.precisions.Truncate(ctx, symbol, price)
}

// CalculateFundingPayment resolves the funding record nearest at and computes
// the fee a position of size settled there
func (e *Engine) CalculateFundingPayment(ctx context.Context, symbol, at string, size decimal.Decimal) (*FundingPayment, error) {
	rec, err := e.GetNearestFunding(ctx, symbol, at)
	if err != nil {
		return nil, err
	}
	p, err := fundingrate.CalculatePayment(rec, size)
	if err != nil {
		return nil, err
	}
	return &FundingPayment{Record: rec, PositionSize: size.String(), Payment: p}, nil
}
