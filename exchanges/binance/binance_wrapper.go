package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/pricetrace/exchanges/fundingrate"
	"github.com/thrasher-corp/pricetrace/exchanges/kline"
	"github.com/thrasher-corp/pricetrace/exchanges/request"
	"github.com/thrasher-corp/pricetrace/exchanges/trade"
	"github.com/thrasher-corp/pricetrace/log"
)

// FetchCandles implements kline.Fetcher. The upstream treats endTime as
// inclusive so one millisecond is taken off the exclusive end.
func (b *Binance) FetchCandles(ctx context.Context, symbol string, feed kline.Feed, interval kline.Interval, start, end time.Time, limit int) ([]kline.Candle, error) {
	var (
		rows []FuturesCandleStick
		err  error
	)
	switch feed {
	case kline.MarkPrice:
		rows, err = b.UMarkPriceKlineData(ctx, symbol, interval.Short(), limit, start, end.Add(-time.Millisecond))
	case kline.LastPrice:
		rows, err = b.UKlineData(ctx, symbol, interval.Short(), limit, start, end.Add(-time.Millisecond))
	default:
		return nil, feed.Validate()
	}
	if err != nil {
		return nil, err
	}
	candles := make([]kline.Candle, len(rows))
	for i := range rows {
		candles[i] = kline.Candle{
			OpenTime:  rows[i].OpenTime.Time(),
			CloseTime: rows[i].CloseTime.Time(),
			Open:      rows[i].Open.Float64(),
			High:      rows[i].High.Float64(),
			Low:       rows[i].Low.Float64(),
			Close:     rows[i].Close.Float64(),
		}
	}
	return candles, nil
}

// FetchTrades implements trade.Fetcher using the compressed trade endpoint.
// Paging by ID sends fromId alone as the upstream does not combine it with a
// time range.
func (b *Binance) FetchTrades(ctx context.Context, symbol string, fromID int64, start, end time.Time, limit int) ([]trade.Print, error) {
	var (
		rows []UCompressedTradeData
		err  error
	)
	if fromID > 0 {
		rows, err = b.UCompressedTrades(ctx, symbol, strconv.FormatInt(fromID, 10), limit, time.Time{}, time.Time{})
	} else {
		rows, err = b.UCompressedTrades(ctx, symbol, "", limit, start, end.Add(-time.Millisecond))
	}
	if err != nil {
		return nil, err
	}
	prints := make([]trade.Print, len(rows))
	for i := range rows {
		prints[i] = trade.Print{
			ID:         rows[i].AggregateTradeID,
			Price:      rows[i].Price.Float64(),
			Quantity:   rows[i].Quantity.Float64(),
			Timestamp:  rows[i].Timestamp.Time(),
			BuyerMaker: rows[i].IsBuyerMaker,
		}
	}
	return prints, nil
}

// FetchFundingRates implements fundingrate.Fetcher. An empty or zero mark
// price is reported as absent.
func (b *Binance) FetchFundingRates(ctx context.Context, symbol string, start, end time.Time, limit int) ([]fundingrate.Record, error) {
	rows, err := b.UGetFundingHistory(ctx, symbol, limit, start, end)
	if err != nil {
		return nil, err
	}
	records := make([]fundingrate.Record, len(rows))
	for i := range rows {
		records[i] = fundingrate.Record{
			Symbol:      rows[i].Symbol,
			FundingTime: rows[i].FundingTime.Time(),
			Rate:        rows[i].FundingRate,
		}
		mark := strings.TrimSpace(rows[i].MarkPrice)
		if mark == "" {
			continue
		}
		d, err := decimal.NewFromString(mark)
		if err != nil {
			return nil, fmt.Errorf("%w: %s funding mark price %q: %w", request.ErrUpstreamFetchFailure, b.Name, mark, err)
		}
		if d.IsZero() {
			continue
		}
		records[i].MarkPrice = decimal.NewNullDecimal(d)
	}
	return records, nil
}

// FetchPricePrecisions implements precision.Fetcher
func (b *Binance) FetchPricePrecisions(ctx context.Context) (map[string]int, error) {
	info, err := b.UExchangeInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: %s empty exchange info", request.ErrUpstreamFetchFailure, b.Name)
	}
	m := make(map[string]int, len(info.Symbols))
	for i := range info.Symbols {
		m[strings.ToUpper(info.Symbols[i].Symbol)] = info.Symbols[i].PricePrecision
	}
	log.Debugf(log.ExchangeSys, "%s exchange info returned %d symbols", b.Name, len(m))
	return m, nil
}
