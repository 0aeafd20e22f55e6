package kline

import (
	"fmt"
	"strings"
	"time"
)

// String returns the feed name
func (f Feed) String() string {
	switch f {
	case MarkPrice:
		return "mark_price"
	case LastPrice:
		return "last_price"
	default:
		return fmt.Sprintf("feed(%d)", uint8(f))
	}
}

// Validate returns an error when f is not a known feed
func (f Feed) Validate() error {
	if f != MarkPrice && f != LastPrice {
		return fmt.Errorf("%w: %d", ErrInvalidFeed, uint8(f))
	}
	return nil
}

// String returns numeric string
func (i Interval) String() string {
	return i.Duration().String()
}

// Duration returns interval casted as time.Duration for compatibility
func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

// Short returns short string version of interval
func (i Interval) Short() string {
	s := i.String()
	if strings.HasSuffix(s, "m0s") {
		s = s[:len(s)-2]
	}
	if strings.HasSuffix(s, "h0m") {
		s = s[:len(s)-2]
	}
	return s
}

// String returns the state name
func (s PageState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExhausted:
		return "exhausted"
	case StateEmptyPage:
		return "empty_page"
	case StateGuardTripped:
		return "guard_tripped"
	default:
		return "unknown"
	}
}

// TotalCandlesPerInterval returns the number of interval buckets that
// intersect [start, end)
func TotalCandlesPerInterval(start, end time.Time, interval Interval) int64 {
	if interval <= 0 || !end.After(start) {
		return 0
	}
	first := start.Truncate(interval.Duration())
	return int64((end.Sub(first) + interval.Duration() - 1) / interval.Duration())
}
