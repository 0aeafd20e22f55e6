package timeperiods

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thrasher-corp/pricetrace/common"
)

// ErrInvalidTimestamp is returned when a wall-clock string cannot be parsed
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Window lengths for the buckets the engine aligns to
const (
	Minute = time.Minute
	Second = time.Second
)

// ParseUTC parses a "YYYY-MM-DD HH:MM:SS" string as UTC. No offset is applied
// beyond treating the string as UTC.
func ParseUTC(ts string) (time.Time, error) {
	s := strings.TrimSpace(ts)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidTimestamp)
	}
	t, err := time.ParseInLocation(common.SimpleTimeFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected format YYYY-MM-DD HH:MM:SS", ErrInvalidTimestamp, ts)
	}
	return t, nil
}

// FloorToMinute returns the epoch millisecond value of the start of the
// minute containing ts
func FloorToMinute(ts string) (int64, error) {
	t, err := ParseUTC(ts)
	if err != nil {
		return 0, err
	}
	return t.Truncate(Minute).UnixMilli(), nil
}

// FloorToSecond returns the epoch millisecond value of ts. The canonical
// layout has second resolution so no truncation takes place.
func FloorToSecond(ts string) (int64, error) {
	t, err := ParseUTC(ts)
	if err != nil {
		return 0, err
	}
	return t.Truncate(Second).UnixMilli(), nil
}

// FormatUTC renders t in the canonical layout in UTC
func FormatUTC(t time.Time) string {
	return t.UTC().Format(common.SimpleTimeFormat)
}

// FormatMillis renders epoch milliseconds in the canonical layout
func FormatMillis(ms int64) string {
	return FormatUTC(common.UnixMillisToTime(ms))
}

// TimeRange holds a half open [Start, End) range
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the half open range
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ContainingWindow returns the length d bucket containing t
func ContainingWindow(t time.Time, d time.Duration) TimeRange {
	start := t.UTC().Truncate(d)
	return TimeRange{Start: start, End: start.Add(d)}
}

// SymmetricWindow returns [t-width, t+width]
func SymmetricWindow(t time.Time, width time.Duration) TimeRange {
	return TimeRange{Start: t.Add(-width), End: t.Add(width)}
}
