package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global zerolog logger: human-readable console output
// plus a rotating JSON file when logDir is set. Components then derive their
// own scoped loggers from log.Logger.
func Setup(level, logDir string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filepath.Join(logDir, "signalbot.log"),
				MaxSize:    10, // MB
				MaxBackups: 30,
				MaxAge:     30, // days
				Compress:   true,
			})
		} else {
			log.Warn().Err(err).Str("dir", logDir).Msg("Log directory unavailable, console only")
		}
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().Timestamp().Logger()
}
