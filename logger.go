package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// verbosityLevel maps the verbosity_level setting onto zap levels:
// 0 - critical errors only
// 1, 2 - stages and events being synced
// 3 and up - skipped events and debug detail
func verbosityLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.ErrorLevel
	case verbosity <= 2:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// newLogger writes human-readable lines to stdout and, when logFile is set,
// JSON lines to a rotated file.
func newLogger(verbosity int, logFile string) *zap.Logger {
	level := zap.NewAtomicLevelAt(verbosityLevel(verbosity))

	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.TimeKey = ""
	consoleConfig.CallerKey = ""
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stdout), level),
	}

	if logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			zap.NewAtomicLevelAt(zapcore.DebugLevel),
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}
