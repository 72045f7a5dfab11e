// Package logger configures the process-wide structured logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger.
var Log = logrus.New()

// Setup applies level and format. format "json" forces JSON output, "text"
// forces text; empty picks JSON in production.
func Setup(level, format string, production bool) {
	Log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	switch {
	case format == "json", format == "" && production:
		Log.SetFormatter(&logrus.JSONFormatter{})
	default:
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// WithFields is a shorthand for Log.WithFields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}
