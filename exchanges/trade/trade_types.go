package trade

import (
	"context"
	"errors"
	"time"
)

// Defaults applied when an Aggregator field is left zero
const (
	DefaultRetention = 7 * 24 * time.Hour
	DefaultPageLimit = 1000
	DefaultMaxPages  = 100
)

// ErrRetentionWindowExceeded is returned when the requested second is older
// than the upstream keeps trade prints for
var ErrRetentionWindowExceeded = errors.New("target is outside the trade retention window")

var errNilFetcher = errors.New("trade fetcher is nil")

// Print is a single compressed trade print
type Print struct {
	ID        int64
	Price     float64
	Quantity  float64
	Timestamp time.Time
	// BuyerMaker is true when the buyer was the resting order
	BuyerMaker bool
}

// Fetcher returns at most limit trade prints in ascending ID order. A
// positive fromID returns prints from that ID onwards whatever their time;
// otherwise the prints have a timestamp in [start, end).
type Fetcher interface {
	FetchTrades(ctx context.Context, symbol string, fromID int64, start, end time.Time, limit int) ([]Print, error)
}

// Aggregate is the OHLC of the prints inside a one second window
type Aggregate struct {
	Start time.Time `json:"start"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
	Count int       `json:"count"`
}

// Aggregator reconstructs the traded price at second resolution
type Aggregator struct {
	Fetcher   Fetcher
	Retention time.Duration
	Limit     int
	MaxPages  int
	// Now is consulted for the retention check, time.Now when nil
	Now func() time.Time
}
