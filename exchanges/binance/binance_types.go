package binance

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/pricetrace/types"
)

var errCandleRowTooShort = errors.New("kline row has too few fields")

// FuturesCandleStick holds kline data. The upstream sends each candle as a
// positional array.
type FuturesCandleStick struct {
	OpenTime                types.Time
	Open                    types.Number
	High                    types.Number
	Low                     types.Number
	Close                   types.Number
	Volume                  types.Number
	CloseTime               types.Time
	BaseAssetVolume         types.Number
	NumberOfTrades          int64
	TakerBuyVolume          types.Number
	TakerBuyBaseAssetVolume types.Number
}

// UnmarshalJSON decodes a positional kline row
func (c *FuturesCandleStick) UnmarshalJSON(data []byte) error {
	var (
		index    int
		parseErr error
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if parseErr != nil {
			return
		}
		switch index {
		case 0:
			parseErr = c.OpenTime.UnmarshalJSON(value)
		case 1:
			parseErr = c.Open.UnmarshalJSON(value)
		case 2:
			parseErr = c.High.UnmarshalJSON(value)
		case 3:
			parseErr = c.Low.UnmarshalJSON(value)
		case 4:
			parseErr = c.Close.UnmarshalJSON(value)
		case 5:
			parseErr = c.Volume.UnmarshalJSON(value)
		case 6:
			parseErr = c.CloseTime.UnmarshalJSON(value)
		case 7:
			parseErr = c.BaseAssetVolume.UnmarshalJSON(value)
		case 8:
			c.NumberOfTrades, parseErr = jsonparser.ParseInt(value)
		case 9:
			parseErr = c.TakerBuyVolume.UnmarshalJSON(value)
		case 10:
			parseErr = c.TakerBuyBaseAssetVolume.UnmarshalJSON(value)
		}
		if parseErr != nil {
			parseErr = fmt.Errorf("kline field %d: %w", index, parseErr)
		}
		index++
	})
	if err != nil {
		return err
	}
	if parseErr != nil {
		return parseErr
	}
	if index < 7 {
		return fmt.Errorf("%w: %d", errCandleRowTooShort, index)
	}
	return nil
}

// UCompressedTradeData stores compressed trade data
type UCompressedTradeData struct {
	AggregateTradeID int64        `json:"a"`
	Price            types.Number `json:"p"`
	Quantity         types.Number `json:"q"`
	FirstTradeID     int64        `json:"f"`
	LastTradeID      int64        `json:"l"`
	Timestamp        types.Time   `json:"T"`
	IsBuyerMaker     bool         `json:"m"`
}

// FundingRateHistory stores funding rate history. MarkPrice is empty for
// records the upstream holds no mark price for.
type FundingRateHistory struct {
	Symbol      string          `json:"symbol"`
	FundingRate decimal.Decimal `json:"fundingRate"`
	FundingTime types.Time      `json:"fundingTime"`
	MarkPrice   string          `json:"markPrice"`
}

// UFuturesExchangeInfo stores exchange info for ufutures
type UFuturesExchangeInfo struct {
	Timezone   string               `json:"timezone"`
	ServerTime types.Time           `json:"serverTime"`
	Symbols    []UFuturesSymbolInfo `json:"symbols"`
}

// UFuturesSymbolInfo contains details of a currency symbol
// for a usdt margined future contract
type UFuturesSymbolInfo struct {
	Symbol            string `json:"symbol"`
	Pair              string `json:"pair"`
	ContractType      string `json:"contractType"`
	Status            string `json:"status"`
	BaseAsset         string `json:"baseAsset"`
	QuoteAsset        string `json:"quoteAsset"`
	MarginAsset       string `json:"marginAsset"`
	PricePrecision    int    `json:"pricePrecision"`
	QuantityPrecision int    `json:"quantityPrecision"`
}
