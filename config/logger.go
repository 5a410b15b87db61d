package config

import (
	"github.com/MonkyMars/gecho"
)

var logger *gecho.Logger = gecho.NewDefaultLogger()

// InitializeLogger replaces the package logger with one honouring the
// environment's log level.
func InitializeLogger() *gecho.Logger {
	logger = gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(true),
		gecho.WithLogLevel(gecho.ParseLogLevel(GetLogLevel())),
	))
	return logger
}

func GetLogger() *gecho.Logger {
	return logger
}
