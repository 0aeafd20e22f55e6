package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time represents a time.Time object that can be unmarshalled from an epoch
// number or a quoted epoch number. Upstream payloads carry epoch milliseconds
// but second and microsecond resolution is accepted by digit count.
type Time time.Time

// UnmarshalJSON deserializes json, and timestamp information.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)

	switch s {
	case "null", "0", `""`, `"0"`:
		*t = Time(time.Time{})
		return nil
	}

	s = strings.Trim(s, `"`)
	if i := strings.IndexByte(s, '.'); i != -1 {
		// fractional parts below the resolution of the digit count are dropped
		s = s[:i]
	}

	standard, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("cannot unmarshal %s into Time: %w", string(data), err)
	}

	switch len(strings.TrimPrefix(s, "-")) {
	case 10:
		*t = Time(time.Unix(standard, 0).UTC())
	case 13:
		*t = Time(time.UnixMilli(standard).UTC())
	case 16:
		*t = Time(time.UnixMicro(standard).UTC())
	default:
		return fmt.Errorf("cannot unmarshal %s into Time: unsupported precision", string(data))
	}
	return nil
}

// Time represents a time instance.
func (t Time) Time() time.Time { return time.Time(t) }

// String returns a string representation of the time.
func (t Time) String() string {
	return t.Time().String()
}

// MarshalJSON serializes the time to json as epoch milliseconds
func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time().IsZero() {
		return []byte("0"), nil
	}
	return []byte(strconv.FormatInt(t.Time().UnixMilli(), 10)), nil
}
