package rlgl

import (
	"log/slog"
	"sync/atomic"
)

// newNopLogger creates a logger that discards all output. Its handler is
// never enabled, so callers skip message formatting entirely.
func newNopLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// loggerPtr stores the package logger. Accessed atomically so SetLogger
// may race with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package-wide logger used by every Context that
// was not given its own logger through WithLogger.
// By default rlgl produces no log output. Pass nil to restore silence.
//
// Log levels used by rlgl:
//   - [slog.LevelDebug]: batching internals (flushes, alignment, slot rotation)
//   - [slog.LevelInfo]: lifecycle (context init, capability summary)
//   - [slog.LevelWarn]: non-fatal refusals (dropped vertices, stack overflow,
//     unsupported texture formats, shader fallback)
//
// Example:
//
//	rlgl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands l to the device if it accepts a logger.
func propagateLogger(d Device, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
