// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for both the command line (console
// encoding, ISO8601 timestamps) and the HTTP API (JSON encoding), and integrates
// with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID (request ID) from a Fiber context and
// attaches it to the log entry, so every line logged while serving a request can be
// correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Mapcycle updated")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
