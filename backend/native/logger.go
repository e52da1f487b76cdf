//go:build !nogpu

package native

import (
	"log/slog"
	"sync/atomic"
)

var (
	discard   = slog.New(slog.DiscardHandler)
	loggerPtr atomic.Pointer[slog.Logger]
)

// slogger returns the logger shared by every native device. It discards
// output until a Context hands its logger over through Device.SetLogger.
func slogger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return discard
}

// setLogger replaces the shared logger. Nil restores silence.
func setLogger(l *slog.Logger) {
	loggerPtr.Store(l)
}
