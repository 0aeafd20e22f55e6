package log

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

const (
	timestampFormat = "02/01/2006 15:04:05"
	subLoggerField  = "sys"

	outputConsole = "console"
	outputJSON    = "json"
)

var (
	// read/write mutex for logger
	mu = &sync.RWMutex{}

	globalLogConfig = GenDefaultSettings()
	writerOverride  io.Writer
)

// Config holds configuration settings for the logger
type Config struct {
	Enabled    bool              `json:"enabled" mapstructure:"enabled"`
	Level      string            `json:"level" mapstructure:"level"`
	Output     string            `json:"output" mapstructure:"output"`
	Format     string            `json:"format" mapstructure:"format"`
	SubLoggers []SubLoggerConfig `json:"subloggers,omitempty" mapstructure:"subloggers"`
}

// SubLoggerConfig holds sub logger configuration settings
type SubLoggerConfig struct {
	Name  string `json:"name" mapstructure:"name"`
	Level string `json:"level" mapstructure:"level"`
}

// SubLogger defines a sub logger that can be used externally for packages
// wanting their own named output and level.
type SubLogger struct {
	name   string
	level  zerolog.Level
	logger zerolog.Logger
}
