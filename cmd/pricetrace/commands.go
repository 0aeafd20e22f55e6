package main

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/pricetrace/common/timeperiods"
	"github.com/thrasher-corp/pricetrace/log"
	"github.com/urfave/cli/v2"
)

var (
	errMissingSymbol = errors.New("symbol must be set")
	errMissingTime   = errors.New("time must be set")
	errNoTrades      = errors.New("no trades during that second")
	errNoFallback    = errors.New("no traded candle at or before that time")
)

var symbolFlag = &cli.StringFlag{
	Name:    "symbol",
	Aliases: []string{"s"},
	Usage:   "the perpetual contract, e.g. ETHUSDT",
}

var atFlag = &cli.StringFlag{
	Name:  "at",
	Usage: "the UTC time as YYYY-MM-DD HH:MM:SS",
}

var triggerCommand = &cli.Command{
	Name:      "trigger",
	Usage:     "returns the mark and last price candles of the minute containing a time",
	ArgsUsage: "<symbol> <at>",
	Flags:     []cli.Flag{symbolFlag, atFlag},
	Action:    getTriggerCandles,
}

var rangeCommand = &cli.Command{
	Name:      "range",
	Usage:     "returns the mark and last price highs and lows over a time range",
	ArgsUsage: "<symbol> <from> <to>",
	Flags: []cli.Flag{
		symbolFlag,
		&cli.StringFlag{Name: "from", Usage: "the UTC range start as YYYY-MM-DD HH:MM:SS"},
		&cli.StringFlag{Name: "to", Usage: "the UTC range end as YYYY-MM-DD HH:MM:SS"},
	},
	Action: getRangeHighLow,
}

var secondCommand = &cli.Command{
	Name:      "second",
	Usage:     "returns the traded price summary of the second containing a time",
	ArgsUsage: "<symbol> <at>",
	Flags:     []cli.Flag{symbolFlag, atFlag},
	Action:    getLastPriceAtSecond,
}

var fundingCommand = &cli.Command{
	Name:      "funding",
	Usage:     "returns the funding record nearest a time, with the fee for a position when size is set",
	ArgsUsage: "<symbol> <at> [size]",
	Flags: []cli.Flag{
		symbolFlag,
		atFlag,
		&cli.StringFlag{Name: "size", Usage: "the position size in contracts"},
	},
	Action: getNearestFunding,
}

var fallbackCommand = &cli.Command{
	Name:      "fallback",
	Usage:     "derives the mark price substitute used for a funding time without one",
	ArgsUsage: "<symbol> <at>",
	Flags:     []cli.Flag{symbolFlag, atFlag},
	Action:    getMarkPriceFallback,
}

var precisionCommand = &cli.Command{
	Name:      "precision",
	Usage:     "returns the price precision of a symbol, or of every symbol when none is given",
	ArgsUsage: "[symbol]",
	Flags:     []cli.Flag{symbolFlag},
	Action:    getPrecision,
}

var truncateCommand = &cli.Command{
	Name:      "truncate",
	Usage:     "truncates a price to the precision of a symbol",
	ArgsUsage: "<symbol> <price>",
	Flags: []cli.Flag{
		symbolFlag,
		&cli.StringFlag{Name: "price", Usage: "the price to truncate"},
	},
	Action: truncatePrice,
}

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "serves every lookup over the REST API until interrupted",
	Action: serve,
}

// argOrFlag returns the named flag when set, otherwise the positional
// argument at i
func argOrFlag(c *cli.Context, name string, i int) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return c.Args().Get(i)
}

func symbolAndTime(c *cli.Context) (symbol, at string, err error) {
	symbol = argOrFlag(c, "symbol", 0)
	if symbol == "" {
		return "", "", errMissingSymbol
	}
	at = argOrFlag(c, "at", 1)
	if at == "" {
		return "", "", errMissingTime
	}
	return symbol, at, nil
}

func getTriggerCandles(c *cli.Context) error {
	symbol, at, err := symbolAndTime(c)
	if err != nil {
		return err
	}
	e, err := setupEngine(true)
	if err != nil {
		return err
	}
	res, err := e.GetTriggerMinuteCandles(c.Context, symbol, at)
	if err != nil {
		return err
	}
	return jsonOutput(res)
}

func getRangeHighLow(c *cli.Context) error {
	symbol := argOrFlag(c, "symbol", 0)
	if symbol == "" {
		return errMissingSymbol
	}
	from, to := argOrFlag(c, "from", 1), argOrFlag(c, "to", 2)
	if from == "" || to == "" {
		return errMissingTime
	}
	e, err := setupEngine(true)
	if err != nil {
		return err
	}
	res, err := e.GetRangeHighLow(c.Context, symbol, from, to)
	if err != nil {
		return err
	}
	return jsonOutput(res)
}

func getLastPriceAtSecond(c *cli.Context) error {
	symbol, at, err := symbolAndTime(c)
	if err != nil {
		return err
	}
	e, err := setupEngine(true)
	if err != nil {
		return err
	}
	res, err := e.GetLastPriceAtSecond(c.Context, symbol, at)
	if err != nil {
		return err
	}
	if res == nil {
		return errNoTrades
	}
	return jsonOutput(res)
}

func getNearestFunding(c *cli.Context) error {
	symbol, at, err := symbolAndTime(c)
	if err != nil {
		return err
	}
	var size decimal.Decimal
	if s := argOrFlag(c, "size", 2); s != "" {
		if size, err = decimal.NewFromString(s); err != nil {
			return err
		}
	}
	e, err := setupEngine(true)
	if err != nil {
		return err
	}
	if size.IsZero() {
		res, err := e.GetNearestFunding(c.Context, symbol, at)
		if err != nil {
			return err
		}
		return jsonOutput(res)
	}
	res, err := e.CalculateFundingPayment(c.Context, symbol, at, size)
	if err != nil {
		return err
	}
	return jsonOutput(res)
}

func getMarkPriceFallback(c *cli.Context) error {
	symbol, at, err := symbolAndTime(c)
	if err != nil {
		return err
	}
	fundingTime, err := timeperiods.ParseUTC(at)
	if err != nil {
		return err
	}
	e, err := setupEngine(true)
	if err != nil {
		return err
	}
	res, err := e.ResolveMarkPriceFallback(c.Context, symbol, fundingTime)
	if err != nil {
		return err
	}
	if res == nil {
		return errNoFallback
	}
	return jsonOutput(res)
}

func getPrecision(c *cli.Context) error {
	e, err := setupEngine(true)
	if err != nil {
		return err
	}
	symbol := argOrFlag(c, "symbol", 0)
	if symbol == "" {
		all, err := e.GetAllPrecisions(c.Context)
		if err != nil {
			return err
		}
		return jsonOutput(all)
	}
	p, err := e.GetPrecision(c.Context, symbol)
	if err != nil {
		return err
	}
	return jsonOutput(map[string]any{"symbol": symbol, "pricePrecision": p})
}

func truncatePrice(c *cli.Context) error {
	symbol := argOrFlag(c, "symbol", 0)
	if symbol == "" {
		return errMissingSymbol
	}
	price, err := decimal.NewFromString(argOrFlag(c, "price", 1))
	if err != nil {
		return err
	}
	e, err := setupEngine(true)
	if err != nil {
		return err
	}
	t, err := e.TruncatePrice(c.Context, symbol, price)
	if err != nil {
		return err
	}
	return jsonOutput(map[string]string{"symbol": symbol, "price": t.String()})
}

func serve(c *cli.Context) error {
	e, err := setupEngine(false)
	if err != nil {
		return err
	}
	e.Config.Webserver.Enabled = true
	log.Infof(log.Global, "pricetrace serving %s lookups from %s", e.Exchange.Name, e.Config.Upstream.BaseURL)
	return e.StartRESTServer(c.Context)
}
