// Package logger provides structured logging based on Zap.
//
// Two loggers exist: the general application logger and an access-restricted
// "secure" logger. The secure logger is where full oppgave payloads and
// beskrivelse text land when something needs diagnosing; the general logger
// only carries non-sensitive summaries pointing at it.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches
// it to the log entry, so logs for one request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	secure, _ := logger.NewSecure(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
