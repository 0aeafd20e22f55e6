package binance

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/thrasher-corp/pricetrace/common"
	"github.com/thrasher-corp/pricetrace/exchanges/kline"
)

const (
	ufuturesExchangeInfo       = "/fapi/v1/exchangeInfo"
	ufuturesCompressedTrades   = "/fapi/v1/aggTrades?"
	ufuturesKlineData          = "/fapi/v1/klines?"
	ufuturesMarkPriceKlineData = "/fapi/v1/markPriceKlines?"
	ufuturesFundingRateHistory = "/fapi/v1/fundingRate?"

	uFuturesKlineLimit   = 1500
	uFuturesTradesLimit  = 1000
	uFuturesFundingLimit = 1000
)

var validFuturesIntervals = []string{
	"1m", "3m", "5m", "15m", "30m",
	"1h", "2h", "4h", "6h", "8h", "12h",
	"1d", "3d", "1w", "1M",
}

var (
	errStartTimeAfterEndTime = errors.New("startTime cannot be after endTime")
	errLimitOutOfRange       = errors.New("limit out of range")
)

// UExchangeInfo stores usdt margined futures data
func (b *Binance) UExchangeInfo(ctx context.Context) (*UFuturesExchangeInfo, error) {
	var resp *UFuturesExchangeInfo
	if err := b.SendHTTPRequest(ctx, ufuturesExchangeInfo, uFuturesExchangeInfoRate, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UCompressedTrades gets compressed public trades for usdt margined futures
func (b *Binance) UCompressedTrades(ctx context.Context, symbol, fromID string, limit int, startTime, endTime time.Time) ([]UCompressedTradeData, error) {
	symbolValue, err := common.FormatSymbol(symbol)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("symbol", symbolValue)
	if fromID != "" {
		params.Set("fromId", fromID)
	}
	if err := setLimit(params, limit, uFuturesTradesLimit); err != nil {
		return nil, err
	}
	if err := setTimeRange(params, startTime, endTime); err != nil {
		return nil, err
	}
	var resp []UCompressedTradeData
	if err := b.SendHTTPRequest(ctx, ufuturesCompressedTrades+params.Encode(), uFuturesCompressedTradesRate, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UKlineData gets kline data for usdt margined futures
func (b *Binance) UKlineData(ctx context.Context, symbol, interval string, limit int, startTime, endTime time.Time) ([]FuturesCandleStick, error) {
	return b.klines(ctx, ufuturesKlineData, symbol, interval, limit, startTime, endTime)
}

// UMarkPriceKlineData gets mark price kline data for usdt margined futures
func (b *Binance) UMarkPriceKlineData(ctx context.Context, symbol, interval string, limit int, startTime, endTime time.Time) ([]FuturesCandleStick, error) {
	return b.klines(ctx, ufuturesMarkPriceKlineData, symbol, interval, limit, startTime, endTime)
}

func (b *Binance) klines(ctx context.Context, path, symbol, interval string, limit int, startTime, endTime time.Time) ([]FuturesCandleStick, error) {
	symbolValue, err := common.FormatSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(validFuturesIntervals, interval) {
		return nil, fmt.Errorf("%w: %q", kline.ErrInvalidInterval, interval)
	}
	params := url.Values{}
	params.Set("symbol", symbolValue)
	params.Set("interval", interval)
	if err := setLimit(params, limit, uFuturesKlineLimit); err != nil {
		return nil, err
	}
	if err := setTimeRange(params, startTime, endTime); err != nil {
		return nil, err
	}
	var resp []FuturesCandleStick
	if err := b.SendHTTPRequest(ctx, path+params.Encode(), klineRate(limit), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UGetFundingHistory gets funding history for USDTMarginedFutures
func (b *Binance) UGetFundingHistory(ctx context.Context, symbol string, limit int, startTime, endTime time.Time) ([]FundingRateHistory, error) {
	params := url.Values{}
	if symbol != "" {
		symbolValue, err := common.FormatSymbol(symbol)
		if err != nil {
			return nil, err
		}
		params.Set("symbol", symbolValue)
	}
	if err := setLimit(params, limit, uFuturesFundingLimit); err != nil {
		return nil, err
	}
	if err := setTimeRange(params, startTime, endTime); err != nil {
		return nil, err
	}
	var resp []FundingRateHistory
	if err := b.SendHTTPRequest(ctx, ufuturesFundingRateHistory+params.Encode(), uFuturesFundingRateHistoryRate, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func setLimit(params url.Values, limit, maxLimit int) error {
	if limit < 0 || limit > maxLimit {
		return fmt.Errorf("%w: %d, max %d", errLimitOutOfRange, limit, maxLimit)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return nil
}

func setTimeRange(params url.Values, startTime, endTime time.Time) error {
	if !startTime.IsZero() && !endTime.IsZero() && startTime.After(endTime) {
		return errStartTimeAfterEndTime
	}
	if !startTime.IsZero() {
		params.Set("startTime", strconv.FormatInt(startTime.UnixMilli(), 10))
	}
	if !endTime.IsZero() {
		params.Set("endTime", strconv.FormatInt(endTime.UnixMilli(), 10))
	}
	return nil
}
