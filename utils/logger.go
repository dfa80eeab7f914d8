package utils

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger

	defaultOnce sync.Once
)

// InitLogger sets up InfoLogger on stdout and ErrorLogger on stderr. Unknown levels fall
// back to info; format is "text" or "json".
func InitLogger(level, format string) {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	ErrorLogger.SetOutput(os.Stderr)

	var formatter logrus.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	if format == "json" {
		formatter = &logrus.JSONFormatter{}
	}
	InfoLogger.SetFormatter(formatter)
	ErrorLogger.SetFormatter(formatter)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	InfoLogger.SetLevel(lvl)
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

func ensureDefault() {
	defaultOnce.Do(func() {
		if InfoLogger == nil || ErrorLogger == nil {
			InitLogger("info", "text")
		}
	})
}

// Info returns InfoLogger, initialising defaults when InitLogger was never called.
func Info() *logrus.Logger {
	ensureDefault()
	return InfoLogger
}

// Error returns ErrorLogger, initialising defaults when InitLogger was never called.
func Error() *logrus.Logger {
	ensureDefault()
	return ErrorLogger
}
