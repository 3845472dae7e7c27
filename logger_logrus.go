package libemit

import (
	"github.com/sirupsen/logrus"
)

var logrusLevels = map[LogLevel]logrus.Level{
	LevelError: logrus.ErrorLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelDebug: logrus.DebugLevel,
}

// NewLogrusLogFunc returns a LogFunc writing to a logrus logger.
func NewLogrusLogFunc(l *logrus.Logger) LogFunc {
	entry := l.WithField("component", "emitter")

	return func(level LogLevel, msg string) {
		lvl, ok := logrusLevels[level]
		if !ok {
			lvl = logrus.DebugLevel
		}
		entry.Log(lvl, msg)
	}
}
