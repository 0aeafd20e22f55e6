package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartEndTimeCheck(t *testing.T) {
	t.Parallel()
	fiveMinsAgo := time.Now().Add(-time.Minute * 5)
	now := time.Now()

	err := StartEndTimeCheck(time.Time{}, now)
	assert.ErrorIs(t, err, ErrDateUnset)

	err = StartEndTimeCheck(fiveMinsAgo, time.Time{})
	assert.ErrorIs(t, err, ErrDateUnset)

	err = StartEndTimeCheck(now, now)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.ErrorIs(t, err, ErrStartEqualsEnd)

	err = StartEndTimeCheck(now, fiveMinsAgo)
	assert.ErrorIs(t, err, ErrInvalidRange)

	assert.NoError(t, StartEndTimeCheck(fiveMinsAgo, now))
}

func TestFormatSymbol(t *testing.T) {
	t.Parallel()
	s, err := FormatSymbol("  ethusdt ")
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", s)

	_, err = FormatSymbol("   ")
	assert.ErrorIs(t, err, ErrSymbolEmpty)
}

func TestUnixMillisToTime(t *testing.T) {
	t.Parallel()
	tm := UnixMillisToTime(1414456320000)
	assert.Equal(t, time.Date(2014, time.October, 28, 0, 32, 0, 0, time.UTC), tm)
	assert.Equal(t, time.UTC, tm.Location())
}
