// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application logger. It is usable before Init with logrus
// defaults.
var Log = logrus.New()

// Init configures Log. An unknown level falls back to info; any format other
// than "json" gives text, coloured only when writing to a terminal.
func Init(level, format string) *logrus.Logger {
	return InitTo(os.Stderr, level, format)
}

func InitTo(out io.Writer, level, format string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log.SetOutput(out)
	if err != nil && level != "" {
		Log.WithField("level", level).Warn("unknown log level, using info")
	}
	return Log
}
