package kline

import (
	"time"

	"github.com/thrasher-corp/pricetrace/common/math"
)

// CalculateExtrema scans candles once from left to right. Ties keep the first
// bucket seen for both the high and the low. An empty series yields an
// unavailable Extrema.
func CalculateExtrema(candles []Candle) Extrema {
	if len(candles) == 0 {
		return Extrema{}
	}
	e := Extrema{
		Available: true,
		High:      candles[0].High,
		HighTime:  candles[0].OpenTime,
		Low:       candles[0].Low,
		LowTime:   candles[0].OpenTime,
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].High > e.High {
			e.High = candles[i].High
			e.HighTime = candles[i].OpenTime
		}
		if candles[i].Low < e.Low {
			e.Low = candles[i].Low
			e.LowTime = candles[i].OpenTime
		}
	}
	e.ChangePct, e.ChangePctAvailable = math.CalculatePercentageSwing(e.High, e.Low)
	return e
}

// CalculateRangeExtrema reduces both feeds independently. It only errors when
// neither feed holds a candle.
func CalculateRangeExtrema(mark, last []Candle) (RangeExtrema, error) {
	if len(mark) == 0 && len(last) == 0 {
		return RangeExtrema{}, ErrNoDataFound
	}
	return RangeExtrema{
		MarkPrice: CalculateExtrema(mark),
		LastPrice: CalculateExtrema(last),
	}, nil
}

// ClampTimes pulls the high and low instants into [from, to]. A bucket that
// opened before from reports from instead of its open time.
func (e *Extrema) ClampTimes(from, to time.Time) {
	if !e.Available {
		return
	}
	e.HighTime = clampTime(e.HighTime, from, to)
	e.LowTime = clampTime(e.LowTime, from, to)
}

// ClampTimes clamps both feeds
func (r *RangeExtrema) ClampTimes(from, to time.Time) {
	r.MarkPrice.ClampTimes(from, to)
	r.LastPrice.ClampTimes(from, to)
}

func clampTime(t, from, to time.Time) time.Time {
	if t.Before(from) {
		return from
	}
	if t.After(to) {
		return to
	}
	return t
}
