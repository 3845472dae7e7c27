package libemit

import (
	"github.com/rs/zerolog"
)

var zerologLevels = map[LogLevel]zerolog.Level{
	LevelError: zerolog.ErrorLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelDebug: zerolog.DebugLevel,
}

// NewZerologLogFunc returns a LogFunc writing to a zerolog logger.
func NewZerologLogFunc(l zerolog.Logger) LogFunc {
	l = l.With().Str("component", "emitter").Logger()

	return func(level LogLevel, msg string) {
		lvl, ok := zerologLevels[level]
		if !ok {
			lvl = zerolog.DebugLevel
		}
		l.WithLevel(lvl).Msg(msg)
	}
}
