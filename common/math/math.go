package math

import (
	"math"

	"github.com/shopspring/decimal"
)

// CalculatePercentageSwing returns the swing between a high and a low as a
// percentage of the low. ok is false when the low is zero or either input is
// not finite, so callers never see Inf or NaN.
func CalculatePercentageSwing(high, low float64) (pct float64, ok bool) {
	if low == 0 || !isFinite(low) || !isFinite(high) {
		return 0, false
	}
	pct = (high - low) / low * 100
	if !isFinite(pct) {
		return 0, false
	}
	return pct, true
}

// TruncateToPrecision drops every digit after prec decimal places without
// rounding. A negative precision is treated as zero.
func TruncateToPrecision(value decimal.Decimal, prec int) decimal.Decimal {
	if prec < 0 {
		prec = 0
	}
	return value.Truncate(int32(prec))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
