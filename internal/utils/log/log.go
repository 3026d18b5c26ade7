package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests do not go through main, so the logger must exist before InitLogger is called.
func init() {
	InitLogger("fashigram", "debug")
}

// InitLogger rebuilds the global logger. Release mode switches to JSON output at info level.
func InitLogger(service, mode string) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if mode == "release" {
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.SetLevel(logrus.DebugLevel)
	}

	Log = logger.WithFields(logrus.Fields{"service": service, "is_development": mode != "release"})
}

// Logger exposes the underlying logger for adapters such as gorm's.
func Logger() *logrus.Logger {
	return logger
}
