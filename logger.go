package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// newBootstrapLogger builds the plain-text logger used before the
// configuration is loaded. Once the config is available the zap-backed
// service from internal/logger takes over.
func newBootstrapLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}
