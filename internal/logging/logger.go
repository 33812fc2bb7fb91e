// Package logging provides a logging abstraction layer that decouples the
// application from specific logging frameworks. This allows for easier
// testing and flexibility in choosing logging implementations.
package logging

import "sync"

// Logger defines the interface for structured logging throughout the application.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Standardized field names for structured logging. These constants keep log
// output consistent across packages so pipeline runs can be filtered by
// correlation id, stage, or category.
const (
	FieldCorrelationID = "correlation_id"
	FieldStage         = "stage"
	FieldStatus        = "status"
	FieldCategory      = "category"
	FieldLocation      = "location"
	FieldAmount        = "amount"
	FieldCount         = "count"
	FieldSkipped       = "skipped"
	FieldDuration      = "duration_s"
	FieldSpreadsheet   = "spreadsheet_id"
	FieldRange         = "range"
	FieldOperation     = "operation"
	FieldReason        = "reason"
)

var (
	defaultLogger Logger
	defaultMu     sync.RWMutex
)

// GetLogger returns the process-wide default logger, creating an info-level
// text logger on first use.
func GetLogger() Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogrusAdapter("info", "text")
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide default logger. Passing nil is
// ignored.
func SetDefaultLogger(logger Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}
