package libemit

import (
	"fmt"
	"sync"
)

// LogLevel is the severity of a log line. Lower values are more severe.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// LogFunc receives every line logged by the package.
type LogFunc func(level LogLevel, msg string)

// Logger is satisfied by logrus loggers and entries, among others.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

var (
	logMu   sync.RWMutex
	logFunc LogFunc
)

// SetLogFunc installs the process-wide log hook. Passing nil drops all logs,
// which is also the default.
func SetLogFunc(fn LogFunc) {
	logMu.Lock()
	defer logMu.Unlock()

	logFunc = fn
}

// Log forwards msg to the installed hook, if any.
func Log(level LogLevel, msg string) {
	logMu.RLock()
	fn := logFunc
	logMu.RUnlock()

	if fn != nil {
		fn(level, msg)
	}
}

func logf(level LogLevel, format string, args ...any) {
	Log(level, fmt.Sprintf(format, args...))
}

// safeLog is used from recovery paths, where a panicking hook must not escape.
func safeLog(level LogLevel, msg string) {
	defer func() {
		_ = recover()
	}()

	Log(level, msg)
}

// NewLogFunc adapts a leveled Logger into a LogFunc.
func NewLogFunc(l Logger) LogFunc {
	return func(level LogLevel, msg string) {
		switch level {
		case LevelError:
			l.Errorf("%s", msg)
		case LevelWarn:
			l.Warnf("%s", msg)
		case LevelInfo:
			l.Infof("%s", msg)
		default:
			l.Debugf("%s", msg)
		}
	}
}
