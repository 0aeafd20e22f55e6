package log

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Info takes a pointer subLogger struct and string sends to the writer
func Info(sl *SubLogger, data string) {
	emit(sl, zerolog.InfoLevel, data)
}

// Infof takes a pointer subLogger struct, string and interface formats sends
// to the writer
func Infof(sl *SubLogger, data string, v ...any) {
	emitf(sl, zerolog.InfoLevel, data, v...)
}

// Debug takes a pointer subLogger struct and string sends to the writer
func Debug(sl *SubLogger, data string) {
	emit(sl, zerolog.DebugLevel, data)
}

// Debugf takes a pointer subLogger struct, string and interface formats sends
// to the writer
func Debugf(sl *SubLogger, data string, v ...any) {
	emitf(sl, zerolog.DebugLevel, data, v...)
}

// Warn takes a pointer subLogger struct & string and sends to the writer
func Warn(sl *SubLogger, data string) {
	emit(sl, zerolog.WarnLevel, data)
}

// Warnf takes a pointer subLogger struct, string and interface formats and
// sends to the writer
func Warnf(sl *SubLogger, data string, v ...any) {
	emitf(sl, zerolog.WarnLevel, data, v...)
}

// Error takes a pointer subLogger struct & string and sends to the writer
func Error(sl *SubLogger, data string) {
	emit(sl, zerolog.ErrorLevel, data)
}

// Errorf takes a pointer subLogger struct, string and interface formats and
// sends to the writer
func Errorf(sl *SubLogger, data string, v ...any) {
	emitf(sl, zerolog.ErrorLevel, data, v...)
}

// Enabled reports whether sl will write at level
func (sl *SubLogger) Enabled(level zerolog.Level) bool {
	if sl == nil {
		return false
	}
	mu.RLock()
	defer mu.RUnlock()
	return level >= sl.level && sl.level != zerolog.Disabled
}

func emit(sl *SubLogger, level zerolog.Level, data string) {
	if sl == nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	sl.logger.WithLevel(level).Msg(data)
}

func emitf(sl *SubLogger, level zerolog.Level, data string, v ...any) {
	if sl == nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	if e := sl.logger.WithLevel(level); e != nil {
		e.Msg(fmt.Sprintf(data, v...))
	}
}
