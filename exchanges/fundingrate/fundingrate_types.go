package fundingrate

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/pricetrace/exchanges/kline"
)

// DefaultLimit is the upstream row cap for funding record requests
const DefaultLimit = 1000

// DefaultWindows are the half widths searched around a target, narrowest
// first
var DefaultWindows = []time.Duration{10 * time.Minute, 30 * time.Minute, 90 * time.Minute}

// Public funding errors
var (
	ErrNoFundingRecordFound = errors.New("no funding record found")
	ErrMarkPriceUnavailable = errors.New("mark price unavailable")
)

var (
	errNilFetcher      = errors.New("funding fetcher is nil")
	errNilCandles      = errors.New("candle fetcher is nil")
	errNilRecord       = errors.New("funding record is nil")
	errNoWindows       = errors.New("no search windows configured")
	errInvalidPosition = errors.New("position size must be positive")
)

// Resolution statuses
const (
	StatusNotFound Status = iota
	StatusFound
	StatusNeedsFallback
)

// Position sides
const (
	Long  Side = "Long"
	Short Side = "Short"
)

// Status tags the outcome of a funding record lookup
type Status uint8

// Side is the position side that pays a funding fee
type Side string

// Record is one periodic funding record. A derived mark price carries its own
// timestamp, which replaces FundingTime.
type Record struct {
	Symbol      string              `json:"symbol"`
	FundingTime time.Time           `json:"fundingTime"`
	Rate        decimal.Decimal     `json:"fundingRate"`
	MarkPrice   decimal.NullDecimal `json:"markPrice"`
	Derived     bool                `json:"derived"`
}

// Resolution is the outcome of Resolve. Record is nil for StatusNotFound.
type Resolution struct {
	Status Status
	Record *Record
}

// DerivedPrice is a mark price substitute taken from a traded price candle
type DerivedPrice struct {
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// Payment is the funding fee settled for a position at a record
type Payment struct {
	Notional decimal.Decimal `json:"notional"`
	Fee      decimal.Decimal `json:"fee"`
	Payer    Side            `json:"payer"`
	Receiver Side            `json:"receiver"`
}

// Fetcher returns at most limit funding records with a funding time in
// [start, end], in ascending order
type Fetcher interface {
	FetchFundingRates(ctx context.Context, symbol string, start, end time.Time, limit int) ([]Record, error)
}

// Resolver finds the funding record nearest a target time
type Resolver struct {
	Fetcher Fetcher
	Candles kline.Fetcher
	Windows []time.Duration
	Limit   int
}
