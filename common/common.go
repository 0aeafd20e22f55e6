package common

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Public common errors
var (
	ErrInvalidRange   = errors.New("invalid time range")
	ErrStartEqualsEnd = errors.New("start date equals end date")
	ErrDateUnset      = errors.New("date unset")
	ErrSymbolEmpty    = errors.New("symbol cannot be empty")
)

// SimpleTimeFormat is the canonical wall-clock layout accepted and rendered in
// UTC across the repository
const SimpleTimeFormat = "2006-01-02 15:04:05"

// StartEndTimeCheck provides some basic checks which occur frequently in the
// codebase. The range is half open so end must be strictly after start.
func StartEndTimeCheck(start, end time.Time) error {
	if start.IsZero() || start.Equal(time.Unix(0, 0)) {
		return fmt.Errorf("start %w", ErrDateUnset)
	}
	if end.IsZero() || end.Equal(time.Unix(0, 0)) {
		return fmt.Errorf("end %w", ErrDateUnset)
	}
	if start.Equal(end) {
		return fmt.Errorf("%w: %w", ErrInvalidRange, ErrStartEqualsEnd)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			start.UTC().Format(SimpleTimeFormat),
			end.UTC().Format(SimpleTimeFormat))
	}
	return nil
}

// FormatSymbol trims and upper cases an instrument symbol, returning
// ErrSymbolEmpty when nothing remains
func FormatSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", ErrSymbolEmpty
	}
	return s, nil
}

// UnixMillisToTime converts epoch milliseconds to a UTC time
func UnixMillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
