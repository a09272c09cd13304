package logging

import (
	"log/slog"
	"sync/atomic"
)

var traceEnabled atomic.Bool

// SetTrace switches trace logs on or off. A TRACE log level switches them on.
func SetTrace(on bool) { traceEnabled.Store(on) }

// TraceEnabled reports whether trace logs are written.
func TraceEnabled() bool { return traceEnabled.Load() }

// Trace logs at DEBUG when tracing is on. Use it for per-sample and
// per-listener chatter.
func Trace(logger *slog.Logger, msg string, args ...any) {
	if traceEnabled.Load() {
		logger.Debug(msg, args...)
	}
}

// TraceDefault is Trace on slog.Default().
func TraceDefault(msg string, args ...any) {
	Trace(slog.Default(), msg, args...)
}
