// Package observability wires process-wide loggers. CLI commands log
// human-readable output to stderr; the server logs structured JSON.
package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// CLILogger is used by CLI commands (console encoding).
	CLILogger *zap.Logger

	// ServerLogger is used by the HTTP server (JSON encoding).
	ServerLogger *zap.Logger
)

// InitCLILogger initializes the CLI logger.
func InitCLILogger(verbose bool) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize CLI logger: %v\n", err)
		os.Exit(1)
	}
	CLILogger = logger
}

// InitServerLogger initializes the server logger with the given level.
func InitServerLogger(service, level string) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.InitialFields = map[string]any{"service": service}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize server logger: %v\n", err)
		os.Exit(1)
	}
	ServerLogger = logger
}

// Sync flushes any buffered log entries. Safe to call on shutdown.
func Sync() {
	if CLILogger != nil {
		_ = CLILogger.Sync()
	}
	if ServerLogger != nil {
		_ = ServerLogger.Sync()
	}
}

// Logger returns the server logger when initialized, otherwise the CLI
// logger, otherwise a no-op logger. Packages that run in both modes use
// this instead of picking one.
func Logger() *zap.Logger {
	if ServerLogger != nil {
		return ServerLogger
	}
	if CLILogger != nil {
		return CLILogger
	}
	return zap.NewNop()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
