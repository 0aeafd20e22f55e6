package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/pricetrace/common/timeperiods"
	"github.com/thrasher-corp/pricetrace/internal/testing/binancestub"
	gctlog "github.com/thrasher-corp/pricetrace/log"
	"github.com/urfave/cli/v2"
)

func runWith(t *testing.T, args []string, action cli.ActionFunc) error {
	t.Helper()
	app := &cli.App{
		Name: "pricetrace",
		Commands: []*cli.Command{{
			Name:   "test",
			Flags:  []cli.Flag{symbolFlag, atFlag},
			Action: action,
		}},
	}
	return app.Run(append([]string{"pricetrace", "test"}, args...))
}

func TestSymbolAndTime(t *testing.T) {
	var symbol, at string
	capture := func(c *cli.Context) error {
		var err error
		symbol, at, err = symbolAndTime(c)
		return err
	}

	require.NoError(t, runWith(t, []string{"ETHUSDT", "2025-09-11 06:53:08"}, capture), "positional arguments must be accepted")
	assert.Equal(t, "ETHUSDT", symbol)
	assert.Equal(t, "2025-09-11 06:53:08", at)

	require.NoError(t, runWith(t, []string{"--symbol", "BTCUSDT", "--at", "2025-09-11 07:00:00", "ignored"}, capture), "flags must be accepted")
	assert.Equal(t, "BTCUSDT", symbol)
	assert.Equal(t, "2025-09-11 07:00:00", at)

	assert.ErrorIs(t, runWith(t, nil, capture), errMissingSymbol)
	assert.ErrorIs(t, runWith(t, []string{"ETHUSDT"}, capture), errMissingTime)
}

func TestCommandsValidateBeforeLoading(t *testing.T) {
	app := &cli.App{Name: "pricetrace", Commands: []*cli.Command{triggerCommand, rangeCommand, truncateCommand, fallbackCommand}}
	assert.ErrorIs(t, app.Run([]string{"pricetrace", "trigger"}), errMissingSymbol)
	assert.ErrorIs(t, app.Run([]string{"pricetrace", "range", "ETHUSDT", "2025-09-11 06:00:00"}), errMissingTime)
	assert.Error(t, app.Run([]string{"pricetrace", "truncate", "ETHUSDT", "abc"}), "an invalid price should error")
	assert.ErrorIs(t, app.Run([]string{"pricetrace", "fallback", "ETHUSDT"}), errMissingTime)
	assert.ErrorIs(t, app.Run([]string{"pricetrace", "fallback", "ETHUSDT", "08:00"}), timeperiods.ErrInvalidTimestamp)
}

func TestFallbackCommand(t *testing.T) {
	stub := binancestub.New()
	t.Cleanup(stub.Close)
	start := time.Date(2025, 9, 11, 7, 0, 0, 0, time.UTC)
	stub.SetLastKlines("ETHUSDT", binancestub.GenerateKlines(start, 10, func(int) (o, h, l, c float64) {
		return 4300, 4301, 4299, 4300
	}))

	p := filepath.Join(t.TempDir(), "pricetrace.yaml")
	require.NoError(t, os.WriteFile(p, []byte("upstream:\n  base_url: "+stub.URL+"\n"), 0o600), "WriteFile must not error")
	configPath = p
	t.Cleanup(func() {
		configPath = ""
		gctlog.SetWriterOverride(nil)
	})

	app := &cli.App{Name: "pricetrace", Commands: []*cli.Command{fallbackCommand}}
	require.NoError(t, app.Run([]string{"pricetrace", "fallback", "ETHUSDT", "2025-09-11 07:05:00"}), "fallback must not error")
	assert.ErrorIs(t, app.Run([]string{"pricetrace", "fallback", "ETHUSDT", "2025-09-11 06:30:00"}), errNoFallback)
}
