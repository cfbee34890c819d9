package logger

// Backend consumes leveled log entries and performs a side effect such as
// rendering to a console or forwarding to a collector.
//
// Log must not block on I/O. Implementations are expected to swallow their
// own failures; the Dispatcher also recovers panics per backend.
type Backend interface {
	Log(severity Severity, message string, attrs Attributes, opts *Options)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(severity Severity, message string, attrs Attributes, opts *Options)

// Log implements Backend for BackendFunc.
func (fn BackendFunc) Log(severity Severity, message string, attrs Attributes, opts *Options) {
	fn(severity, message, attrs, opts)
}
