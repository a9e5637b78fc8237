package skim

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide structured logger used for reader,
// matcher, and preview fault reporting. fzf's own core has no logging
// stack at all (its core.go/terminal.go call fmt.Println/os.Exit
// directly); this wires go.uber.org/zap instead, for a worker-level
// fault to get logged without taking the process down.
// Logging goes to stderr so it never corrupts the alternate-screen
// terminal UI on stdout, and defaults to warn so interactive runs stay
// quiet; set SKIM_LOG_LEVEL=info|debug to raise verbosity.
func NewLogger() *zap.Logger {
	level := zapcore.WarnLevel
	if lvl := os.Getenv("SKIM_LOG_LEVEL"); lvl != "" {
		_ = level.Set(lvl)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}
