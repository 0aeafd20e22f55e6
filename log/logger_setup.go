package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errUnhandledFormat       = errors.New("unhandled log format")
)

func init() {
	Global = registerNewSubLogger("LOG")
	ConfigMgr = registerNewSubLogger("CONFIG")
	LookupSys = registerNewSubLogger("LOOKUP")
	WebserverSys = registerNewSubLogger("WEBSERVER")
	RequestSys = registerNewSubLogger("REQUESTER")
	ExchangeSys = registerNewSubLogger("EXCHANGE")
	if err := SetupGlobalLogger(&globalLogConfig, nil); err != nil {
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
	}
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: true,
		Level:   zerolog.InfoLevel.String(),
		Output:  "stdout",
		Format:  outputConsole,
	}
}

func registerNewSubLogger(name string) *SubLogger {
	sl := &SubLogger{name: strings.ToUpper(name), level: zerolog.InfoLevel}
	subLoggers[sl.name] = sl
	return sl
}

// SetWriterOverride sends the output of every later SetupGlobalLogger call
// made without a writer to w. The configured output is still validated. A
// nil w restores the configured writers.
func SetWriterOverride(w io.Writer) {
	mu.Lock()
	writerOverride = w
	mu.Unlock()
}

func getWriters(output string) (io.Writer, error) {
	var writers []io.Writer
	for _, o := range strings.Split(output, "|") {
		switch strings.ToLower(strings.TrimSpace(o)) {
		case "stdout", outputConsole:
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		case "":
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, o)
		}
	}
	switch len(writers) {
	case 0:
		return os.Stdout, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func newBaseLogger(w io.Writer, format string) zerolog.Logger {
	if strings.EqualFold(format, outputJSON) {
		return zerolog.New(w).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: timestampFormat, NoColor: true}).With().Timestamp().Logger()
}

func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(level))
}

// SetupGlobalLogger configures every registered sub logger from cfg. A nil
// writer resolves to the override when set, otherwise to the writers named
// in cfg.Output.
func SetupGlobalLogger(cfg *Config, w io.Writer) error {
	if cfg == nil {
		def := GenDefaultSettings()
		cfg = &def
	}
	switch strings.ToLower(cfg.Format) {
	case "", outputConsole, outputJSON:
	default:
		return fmt.Errorf("%w: %s", errUnhandledFormat, cfg.Format)
	}
	if w == nil {
		resolved, err := getWriters(cfg.Output)
		if err != nil {
			return err
		}
		mu.RLock()
		w = writerOverride
		mu.RUnlock()
		if w == nil {
			w = resolved
		}
	}
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		level = zerolog.Disabled
	}

	overrides := make(map[string]zerolog.Level, len(cfg.SubLoggers))
	for i := range cfg.SubLoggers {
		l, err := parseLevel(cfg.SubLoggers[i].Level)
		if err != nil {
			return fmt.Errorf("sub logger %s: %w", cfg.SubLoggers[i].Name, err)
		}
		overrides[strings.ToUpper(cfg.SubLoggers[i].Name)] = l
	}

	base := newBaseLogger(w, cfg.Format)
	mu.Lock()
	defer mu.Unlock()
	globalLogConfig = *cfg
	for name, sl := range subLoggers {
		sl.level = level
		if l, ok := overrides[name]; ok && cfg.Enabled {
			sl.level = l
		}
		sl.logger = base.Level(sl.level).With().Str(subLoggerField, name).Logger()
	}
	return nil
}
