package fundingrate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/pricetrace/common/timeperiods"
	"github.com/thrasher-corp/pricetrace/exchanges/kline"
	"github.com/thrasher-corp/pricetrace/log"
)

// NewResolver returns a Resolver using the default search windows
func NewResolver(f Fetcher, candles kline.Fetcher) *Resolver {
	return &Resolver{
		Fetcher: f,
		Candles: candles,
		Windows: DefaultWindows,
		Limit:   DefaultLimit,
	}
}

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNeedsFallback:
		return "needs_fallback"
	default:
		return "not_found"
	}
}

// Resolve searches widening windows around target and stops at the first one
// holding any record. The record closest to target wins, the earlier one on
// a tie.
func (r *Resolver) Resolve(ctx context.Context, symbol string, target time.Time) (Resolution, error) {
	if r == nil || r.Fetcher == nil {
		return Resolution{}, errNilFetcher
	}
	if len(r.Windows) == 0 {
		return Resolution{}, errNoWindows
	}
	limit := r.Limit
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	for _, w := range r.Windows {
		window := timeperiods.SymmetricWindow(target, w)
		records, err := r.Fetcher.FetchFundingRates(ctx, symbol, window.Start, window.End, limit)
		if err != nil {
			return Resolution{}, fmt.Errorf("%s funding records ±%s: %w", symbol, w, err)
		}
		if len(records) == 0 {
			log.Debugf(log.LookupSys, "%s no funding record within ±%s of %s", symbol, w, timeperiods.FormatUTC(target))
			continue
		}
		rec := nearest(records, target)
		if !rec.MarkPrice.Valid {
			return Resolution{Status: StatusNeedsFallback, Record: rec}, nil
		}
		return Resolution{Status: StatusFound, Record: rec}, nil
	}
	return Resolution{Status: StatusNotFound}, nil
}

func nearest(records []Record, target time.Time) *Record {
	best := 0
	bestDist := absDuration(records[0].FundingTime.Sub(target))
	for i := 1; i < len(records); i++ {
		if d := absDuration(records[i].FundingTime.Sub(target)); d < bestDist {
			best, bestDist = i, d
		}
	}
	rec := records[best]
	return &rec
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// MarkPriceFallback derives a price from the traded price candle of the
// funding minute, then of the minute before it. It returns nil without error
// when neither candle exists.
func (r *Resolver) MarkPriceFallback(ctx context.Context, symbol string, fundingTime time.Time) (*DerivedPrice, error) {
	if r == nil || r.Candles == nil {
		return nil, errNilCandles
	}
	minute := fundingTime.UTC().Truncate(kline.OneMin.Duration())
	for _, start := range []time.Time{minute, minute.Add(-kline.OneMin.Duration())} {
		candles, err := r.Candles.FetchCandles(ctx, symbol, kline.LastPrice, kline.OneMin, start, start.Add(kline.OneMin.Duration()), 1)
		if err != nil {
			return nil, fmt.Errorf("%s fallback candle %s: %w", symbol, timeperiods.FormatUTC(start), err)
		}
		if len(candles) == 0 {
			continue
		}
		return &DerivedPrice{
			Price:     decimal.NewFromFloat(candles[0].Close),
			Timestamp: candles[0].CloseTime,
		}, nil
	}
	return nil, nil
}

// Nearest runs the full chain: resolve, then fall back to a derived mark
// price when the record carries none
func (r *Resolver) Nearest(ctx context.Context, symbol string, target time.Time) (*Record, error) {
	res, err := r.Resolve(ctx, symbol, target)
	if err != nil {
		return nil, err
	}
	switch res.Status {
	case StatusFound:
		return res.Record, nil
	case StatusNeedsFallback:
		derived, err := r.MarkPriceFallback(ctx, symbol, res.Record.FundingTime)
		if err != nil {
			return nil, err
		}
		if derived == nil {
			return nil, fmt.Errorf("%w: %s funding at %s", ErrMarkPriceUnavailable, symbol, timeperiods.FormatUTC(res.Record.FundingTime))
		}
		rec := *res.Record
		rec.MarkPrice = decimal.NewNullDecimal(derived.Price)
		rec.FundingTime = derived.Timestamp
		rec.Derived = true
		return &rec, nil
	default:
		return nil, fmt.Errorf("%w: %s near %s", ErrNoFundingRecordFound, symbol, timeperiods.FormatUTC(target))
	}
}

// Sides returns the paying and receiving side for a funding rate. Longs pay
// when the rate is zero or positive.
func Sides(rate decimal.Decimal) (payer, receiver Side) {
	if rate.IsNegative() {
		return Short, Long
	}
	return Long, Short
}

// CalculatePayment computes the funding fee for a position of size contracts
// settled at rec
func CalculatePayment(rec *Record, size decimal.Decimal) (*Payment, error) {
	if rec == nil {
		return nil, errNilRecord
	}
	if !rec.MarkPrice.Valid {
		return nil, fmt.Errorf("%w: %s funding at %s", ErrMarkPriceUnavailable, rec.Symbol, timeperiods.FormatUTC(rec.FundingTime))
	}
	if !size.IsPositive() {
		return nil, fmt.Errorf("%w: %s", errInvalidPosition, size)
	}
	notional := size.Mul(rec.MarkPrice.Decimal)
	payer, receiver := Sides(rec.Rate)
	return &Payment{
		Notional: notional,
		Fee:      notional.Mul(rec.Rate),
		Payer:    payer,
		Receiver: receiver,
	}, nil
}
