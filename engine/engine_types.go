package engine

import (
	"time"

	"github.com/thrasher-corp/pricetrace/exchanges/fundingrate"
	"github.com/thrasher-corp/pricetrace/exchanges/kline"
)

// TriggerCandles holds both feeds for the minute containing a trigger time.
// A feed with no bucket for that minute is nil.
type TriggerCandles struct {
	Symbol    string        `json:"symbol"`
	OpenTime  time.Time     `json:"openTime"`
	MarkPrice *kline.Candle `json:"markPrice"`
	LastPrice *kline.Candle `json:"lastPrice"`
}

// RangeHighLow is the extrema of both feeds over the minute buckets covering
// a user range
type RangeHighLow struct {
	Symbol string    `json:"symbol"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	kline.RangeExtrema
}

// FundingPayment is a funding record with the fee it settled for a position
type FundingPayment struct {
	Record       *fundingrate.Record  `json:"record"`
	PositionSize string               `json:"positionSize"`
	Payment      *fundingrate.Payment `json:"payment"`
}
