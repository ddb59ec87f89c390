package main

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestVerbosityLevel(t *testing.T) {
	tests := map[int]zapcore.Level{
		-1: zapcore.ErrorLevel,
		0:  zapcore.ErrorLevel,
		1:  zapcore.InfoLevel,
		2:  zapcore.InfoLevel,
		3:  zapcore.DebugLevel,
		5:  zapcore.DebugLevel,
	}
	for verbosity, want := range tests {
		if got := verbosityLevel(verbosity); got != want {
			t.Errorf("verbosityLevel(%d) = %v, want %v", verbosity, got, want)
		}
	}
}

func TestNewLoggerWithFile(t *testing.T) {
	logger := newLogger(3, filepath.Join(t.TempDir(), "sync.log"))
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled at verbosity 3")
	}
	logger.Debug("hello")
	logger.Sync()
}
