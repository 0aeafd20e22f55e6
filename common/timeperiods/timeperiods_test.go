package timeperiods

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUTC(t *testing.T) {
	t.Parallel()
	tm, err := ParseUTC(" 2025-09-11 06:53:08 ")
	require.NoError(t, err, "ParseUTC must not error")
	assert.Equal(t, time.Date(2025, 9, 11, 6, 53, 8, 0, time.UTC), tm)

	for _, bad := range []string{"", "2025-09-11", "2025-13-11 06:53:08", "2025-09-11T06:53:08Z", "yesterday", "2025-09-11 25:00:00"} {
		_, err = ParseUTC(bad)
		assert.ErrorIsf(t, err, ErrInvalidTimestamp, "ParseUTC should error for %q", bad)
	}
}

func TestFloorToMinute(t *testing.T) {
	t.Parallel()
	ms, err := FloorToMinute("2025-09-11 06:53:08")
	require.NoError(t, err, "FloorToMinute must not error")
	assert.Equal(t, time.Date(2025, 9, 11, 6, 53, 0, 0, time.UTC).UnixMilli(), ms)

	_, err = FloorToMinute("2025-09-11 06:53")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestFloorToMinuteIdempotent(t *testing.T) {
	t.Parallel()
	for _, ts := range []string{
		"2025-09-11 06:53:08",
		"2025-09-11 00:00:00",
		"2024-02-29 23:59:59",
		"1999-12-31 12:30:01",
	} {
		once, err := FloorToMinute(ts)
		require.NoError(t, err)
		twice, err := FloorToMinute(FormatMillis(once))
		require.NoError(t, err)
		assert.Equalf(t, once, twice, "FloorToMinute should be idempotent for %s", ts)
	}
}

func TestFloorToSecond(t *testing.T) {
	t.Parallel()
	ms, err := FloorToSecond("2025-09-11 06:53:08")
	require.NoError(t, err, "FloorToSecond must not error")
	assert.Equal(t, time.Date(2025, 9, 11, 6, 53, 8, 0, time.UTC).UnixMilli(), ms)

	_, err = FloorToSecond("nope")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestFormatUTC(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+3", 3*60*60)
	tm := time.Date(2025, 9, 11, 9, 53, 8, 0, loc)
	assert.Equal(t, "2025-09-11 06:53:08", FormatUTC(tm))
}

func TestContainingWindow(t *testing.T) {
	t.Parallel()
	tm := time.Date(2025, 9, 11, 6, 53, 8, 500, time.UTC)
	w := ContainingWindow(tm, Minute)
	assert.Equal(t, time.Date(2025, 9, 11, 6, 53, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Minute, w.End.Sub(w.Start))
	assert.True(t, w.Contains(tm))
	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End), "window end should be exclusive")
}

func TestSymmetricWindow(t *testing.T) {
	t.Parallel()
	tm := time.Date(2025, 9, 11, 8, 0, 0, 0, time.UTC)
	w := SymmetricWindow(tm, 10*time.Minute)
	assert.Equal(t, tm.Add(-10*time.Minute), w.Start)
	assert.Equal(t, tm.Add(10*time.Minute), w.End)
}
