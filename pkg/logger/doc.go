// Package logger provides structured logging for the search pipeline
// executor.
//
// This package offers a simple yet powerful logging interface that supports
// structured fields, multiple log levels, and contextual logging for better
// observability and debugging.
//
// # Logger Interface
//
// The Logger interface defines the contract for all logging implementations:
//
//	type Logger interface {
//	    Debug(msg string, fields ...interface{})
//	    Info(msg string, fields ...interface{})
//	    Warn(msg string, fields ...interface{})
//	    Error(msg string, fields ...interface{})
//	    SetLevel(level string)
//	    WithField(key string, value interface{}) Logger
//	    WithFields(fields map[string]interface{}) Logger
//	    With(fields ...Field) Logger
//	}
//
// # Log Levels
//
// Supported log levels in order of severity:
//   - DEBUG: Detailed information for debugging
//   - INFO: General informational messages
//   - WARN: Warning messages for potentially harmful situations
//   - ERROR: Error messages for serious problems
//
// # Structured Logging
//
// All log methods accept structured fields for rich context:
//
//	logger.Info("operator completed", map[string]interface{}{
//	    "operator": "vector_search",
//	    "duration_ms": 145,
//	})
//
// # Contextual Logging
//
// Create child loggers with persistent fields:
//
//	requestLogger := logger.WithFields(map[string]interface{}{
//	    "request_id": "abc-123",
//	    "organization_id": "456",
//	})
//
//	// All logs from requestLogger will include request_id and organization_id
//	requestLogger.Info("executing plan")
//	requestLogger.Info("plan complete", map[string]interface{}{
//	    "operators_executed": 6,
//	})
//
// # Simple Logger Implementation
//
// The package provides SimpleLogger, a production-ready implementation:
//   - Text output through the standard library logger ("[LEVEL] msg key=value")
//   - Configurable log levels
//   - Timestamp inclusion
//   - Field formatting; field values are not sanitized
//
// # Configuration
//
// GetLogLevel reads the minimum level from the LOG_LEVEL environment
// variable (debug, info, warn, error; "INFO" if unset). NewSimpleLogger does
// not read it; pass the value to SetLevel to apply it.
//
// # Best Practices
//
//   - Use appropriate log levels to control verbosity
//   - Include relevant context through structured fields
//   - Avoid logging sensitive information (passwords, tokens, PII)
//   - Use child loggers for request-scoped logging
//   - Keep log messages concise and actionable
package logger
