// Package xlog is commoner's debug-event sink: a thin wrapper over the
// standard logger, active only when debug output has been requested,
// matching cmd/lean's log.SetFlags(0)/log.SetPrefix style rather than a
// structured-event framework.
package xlog

import (
	"fmt"
	"log"
	"os"
)

// Logger emits prefixed debug lines when enabled, and silently discards
// them otherwise, so call sites never need to guard every call with an
// `if debug` check themselves.
type Logger struct {
	std     *log.Logger
	enabled bool
}

// New returns a Logger that writes to os.Stderr with the given prefix
// when enabled is true, and discards everything otherwise.
func New(prefix string, enabled bool) *Logger {
	l := log.New(os.Stderr, prefix, 0)
	return &Logger{std: l, enabled: enabled}
}

// Enabled reports whether debug output is currently turned on.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Debugf logs a formatted debug line, matching update_root_background's
// and check_paint's fprintf(stderr, ...) debug traces.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	l.std.Output(2, fmt.Sprintf(format, args...))
}

// Debug logs a debug line built from fmt.Sprint-style arguments.
func (l *Logger) Debug(args ...any) {
	if !l.Enabled() {
		return
	}
	l.std.Output(2, fmt.Sprint(args...))
}
