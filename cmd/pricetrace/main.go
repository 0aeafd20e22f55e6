package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/thrasher-corp/pricetrace/config"
	"github.com/thrasher-corp/pricetrace/encoding/json"
	"github.com/thrasher-corp/pricetrace/engine"
	gctlog "github.com/thrasher-corp/pricetrace/log"
	"github.com/thrasher-corp/pricetrace/signaler"
	"github.com/urfave/cli/v2"
)

var (
	configPath string
	verbose    bool
)

func jsonOutput(in any) error {
	j, err := json.MarshalIndent(in, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(j))
	return nil
}

// setupEngine loads the config and builds the engine. Lookup commands keep
// stdout for their JSON result, so logs go to stderr, including those written
// while the config is checked.
func setupEngine(logToStderr bool) (*engine.Engine, error) {
	if logToStderr {
		gctlog.SetWriterOverride(os.Stderr)
		if err := gctlog.SetupGlobalLogger(nil, nil); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Upstream.Verbose = true
	}
	return engine.New(cfg)
}

func main() {
	app := cli.NewApp()
	app.Name = "pricetrace"
	app.EnableBashCompletion = true
	app.Usage = "historical mark and last price lookups for USDT-M perpetual futures"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "the config file to load, environment variables prefixed " + config.EnvPrefix + "_ override it",
			EnvVars:     []string{config.EnvPrefix + "_CONFIG"},
			Destination: &configPath,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "logs every upstream request",
			Destination: &verbose,
		},
	}
	app.Commands = []*cli.Command{
		triggerCommand,
		rangeCommand,
		secondCommand,
		fundingCommand,
		fallbackCommand,
		precisionCommand,
		truncateCommand,
		serveCommand,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Capture cancel for interrupt
		<-signaler.WaitForInterrupt()
		cancel()
	}()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
