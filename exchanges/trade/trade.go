package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/thrasher-corp/pricetrace/common"
	"github.com/thrasher-corp/pricetrace/common/timeperiods"
	"github.com/thrasher-corp/pricetrace/log"
)

// NewAggregator returns an Aggregator over f with default limits
func NewAggregator(f Fetcher) *Aggregator {
	return &Aggregator{
		Fetcher:   f,
		Retention: DefaultRetention,
		Limit:     DefaultPageLimit,
		MaxPages:  DefaultMaxPages,
	}
}

func (a *Aggregator) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// CheckRetention returns ErrRetentionWindowExceeded when target is older than
// now minus the retention window. The boundary itself is allowed.
func (a *Aggregator) CheckRetention(target time.Time) error {
	retention := a.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	oldest := a.now().Add(-retention)
	if target.Before(oldest) {
		return fmt.Errorf("%w: %s is before %s", ErrRetentionWindowExceeded,
			target.UTC().Format(common.SimpleTimeFormat), oldest.UTC().Format(common.SimpleTimeFormat))
	}
	return nil
}

// AtSecond aggregates every print in the second containing target. It
// returns nil without error when no trade took place in that second.
func (a *Aggregator) AtSecond(ctx context.Context, symbol string, target time.Time) (*Aggregate, error) {
	if a == nil || a.Fetcher == nil {
		return nil, errNilFetcher
	}
	if err := a.CheckRetention(target); err != nil {
		return nil, err
	}
	window := timeperiods.ContainingWindow(target, timeperiods.Second)
	prints, err := a.collect(ctx, symbol, window)
	if err != nil {
		return nil, err
	}
	return Summarise(window.Start, prints), nil
}

// collect pages through the window. The first page is selected by time, any
// following page continues from the ID after the last print received so prints
// sharing a millisecond across a page edge are never lost.
func (a *Aggregator) collect(ctx context.Context, symbol string, window timeperiods.TimeRange) ([]Print, error) {
	limit, maxPages := a.Limit, a.MaxPages
	if limit <= 0 || limit > DefaultPageLimit {
		limit = DefaultPageLimit
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var (
		out    []Print
		fromID int64
	)
	for page := 1; ; page++ {
		if page > maxPages {
			log.Warnf(log.LookupSys, "%s trade pagination stopped after %d pages inside %s, aggregate is partial",
				symbol, maxPages, timeperiods.FormatUTC(window.Start))
			return out, nil
		}
		prints, err := a.Fetcher.FetchTrades(ctx, symbol, fromID, window.Start, window.End, limit)
		if err != nil {
			return nil, fmt.Errorf("%s trades page %d: %w", symbol, page, err)
		}
		pastEnd := false
		for i := range prints {
			if prints[i].ID < fromID || prints[i].Timestamp.Before(window.Start) {
				continue
			}
			if !prints[i].Timestamp.Before(window.End) {
				pastEnd = true
				break
			}
			out = append(out, prints[i])
		}
		if pastEnd || len(prints) < limit {
			return out, nil
		}
		next := prints[len(prints)-1].ID + 1
		if next <= fromID {
			log.Warnf(log.LookupSys, "%s trade page %d did not advance past ID %d, aggregate may be partial",
				symbol, page, fromID)
			return out, nil
		}
		fromID = next
	}
}

// Summarise builds the OHLC of prints, which must be in ascending order.
// It returns nil for an empty slice.
func Summarise(start time.Time, prints []Print) *Aggregate {
	if len(prints) == 0 {
		return nil
	}
	agg := &Aggregate{
		Start: start,
		Open:  prints[0].Price,
		High:  prints[0].Price,
		Low:   prints[0].Price,
		Close: prints[len(prints)-1].Price,
		Count: len(prints),
	}
	for i := 1; i < len(prints); i++ {
		if prints[i].Price > agg.High {
			agg.High = prints[i].Price
		}
		if prints[i].Price < agg.Low {
			agg.Low = prints[i].Price
		}
	}
	return agg
}
