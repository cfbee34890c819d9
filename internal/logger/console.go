package logger

import (
	"os"
)

// Console is a console-like sink with one output channel per named
// severity. Implementations receive the rendered message followed by the
// attributes, when present.
type Console interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
}

// ConsoleBackend renders log entries to a Console.
type ConsoleBackend struct {
	console Console
}

// NewConsoleBackend creates a console backend. A nil console writes to
// standard error.
func NewConsoleBackend(console Console) *ConsoleBackend {
	if console == nil {
		console = NewWriterConsole(os.Stderr)
	}
	return &ConsoleBackend{console: console}
}

// Log implements Backend. The channel is the highest named threshold that
// severity meets, falling back to debug.
func (b *ConsoleBackend) Log(severity Severity, message string, attrs Attributes, opts *Options) {
	defer func() {
		_ = recover()
	}()

	emit := b.console.Debug
	if severity >= SeverityInfo {
		emit = b.console.Info
	}
	if severity >= SeverityWarn {
		emit = b.console.Warn
	}
	if severity >= SeverityError {
		emit = b.console.Error
	}
	if name := opts.eventName(); name != "" {
		message = "[" + name + "] " + message
	}
	if attrs != nil {
		emit(message, attrs)
		return
	}
	emit(message)
}
