package logger

import (
	"go.uber.org/zap"
)

// Log is process logger, it is no-op until Initialize is called
var Log = zap.NewNop()

// Initialize creates logger with log level and sets it as process logger
func Initialize(level string) error {
	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	l, err := loggerCfg.Build()
	if err != nil {
		return err
	}

	Log = l
	return nil
}
