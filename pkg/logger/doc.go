// Package logger provides a structured logging interface for XPlore.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors, or raw JSON
// - File output in addition to the console
// - Context support for request tracing
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "github.com/tgsn-co/XPlore/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level:  "info",
//	    Format: "console",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Collection started")
//	logger.WithField("keyword", "climate").Info("Searching recent tweets")
//	logger.WithError(err).Error("Export failed")
//
// Advanced Usage:
//
//	// Create a logger instance with fields
//	log := logger.GetLogger().
//	    WithField("component", "collector").
//	    WithField("keyword", "climate")
//
//	// Use structured logging
//	log.InfoWithFields("Page fetched", map[string]interface{}{
//	    "page":   3,
//	    "tweets": 100,
//	})
//
// The logger supports the following configuration options:
// - Level: Log level (debug, info, warn, error, fatal)
// - Format: Output format ("console" for pretty output, "json" for raw JSON)
// - File: Path to a log file written in addition to the console (empty to disable)
package logger
