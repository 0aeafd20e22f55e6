package kline

import (
	"context"
	"errors"
	"time"
)

// OneMin is the bucket width of every candle lookup
const OneMin = Interval(time.Minute)

// Feed kinds. Mark price candles and last price candles are never mixed in
// the same series.
const (
	MarkPrice Feed = iota + 1
	LastPrice
)

// Pagination terminal states
const (
	StateRunning PageState = iota
	StateExhausted
	StateEmptyPage
	StateGuardTripped
)

// Defaults applied when a Pager field is left zero
const (
	DefaultPageLimit = 1500
	DefaultMaxPages  = 1000
)

// Public kline errors
var (
	ErrNoDataFound     = errors.New("no data found")
	ErrInvalidFeed     = errors.New("invalid feed")
	ErrInvalidInterval = errors.New("invalid interval")
)

var errNilFetcher = errors.New("candle fetcher is nil")

// Feed selects which price series a candle belongs to
type Feed uint8

// Interval type for kline Interval usage
type Interval time.Duration

// PageState is the state of a Pager run
type PageState uint8

// Candle holds one fixed length bucket of a single feed
type Candle struct {
	OpenTime  time.Time `json:"openTime"`
	CloseTime time.Time `json:"closeTime"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

// Fetcher returns at most limit candles of feed whose open time falls in
// [start, end), in ascending open time order
type Fetcher interface {
	FetchCandles(ctx context.Context, symbol string, feed Feed, interval Interval, start, end time.Time, limit int) ([]Candle, error)
}

// Pager walks a time range page by page until it is covered
type Pager struct {
	Fetcher  Fetcher
	Interval Interval
	Limit    int
	MaxPages int
}

// PageResult is the outcome of a Pager run
type PageResult struct {
	Candles  []Candle
	State    PageState
	Requests int
}

// Extrema holds the highest high and lowest low of one feed over a range
type Extrema struct {
	Available          bool      `json:"available"`
	High               float64   `json:"high"`
	HighTime           time.Time `json:"highTime"`
	Low                float64   `json:"low"`
	LowTime            time.Time `json:"lowTime"`
	ChangePct          float64   `json:"changePct"`
	ChangePctAvailable bool      `json:"changePctAvailable"`
}

// RangeExtrema holds the extrema of both feeds over the same range
type RangeExtrema struct {
	MarkPrice Extrema `json:"markPrice"`
	LastPrice Extrema `json:"lastPrice"`
}
