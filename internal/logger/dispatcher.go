package logger

import (
	"sync"
	"sync/atomic"
)

// Dispatcher fans log calls out to its registered backends.
//
// The registry is append-only. Readers load an immutable snapshot, so Log is
// safe to call from any goroutine while Register runs. A nil *Dispatcher is
// a valid no-op logger.
type Dispatcher struct {
	mu       sync.Mutex
	backends atomic.Pointer[[]Backend]
}

// NewDispatcher creates a dispatcher with the given backends registered in
// order.
func NewDispatcher(backends ...Backend) *Dispatcher {
	d := &Dispatcher{}
	for _, b := range backends {
		d.Register(b)
	}
	return d
}

// Register appends b to the registry. Nil backends are ignored.
func (d *Dispatcher) Register(b Backend) {
	if d == nil || b == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var current []Backend
	if p := d.backends.Load(); p != nil {
		current = *p
	}
	next := make([]Backend, len(current), len(current)+1)
	copy(next, current)
	next = append(next, b)
	d.backends.Store(&next)
}

// Backends returns a copy of the registry in registration order.
func (d *Dispatcher) Backends() []Backend {
	snapshot := d.snapshot()
	out := make([]Backend, len(snapshot))
	copy(out, snapshot)
	return out
}

// Log invokes every registered backend, in order, with the same arguments.
// A panic in one backend is recovered and does not prevent the remaining
// backends from running.
func (d *Dispatcher) Log(severity Severity, message string, attrs Attributes, opts *Options) {
	for _, b := range d.snapshot() {
		invoke(b, severity, message, attrs, opts)
	}
}

// Debug logs message at SeverityDebug.
func (d *Dispatcher) Debug(message string, attrs Attributes, opts *Options) {
	d.Log(SeverityDebug, message, attrs, opts)
}

// Info logs message at SeverityInfo.
func (d *Dispatcher) Info(message string, attrs Attributes, opts *Options) {
	d.Log(SeverityInfo, message, attrs, opts)
}

// Warn logs message at SeverityWarn.
func (d *Dispatcher) Warn(message string, attrs Attributes, opts *Options) {
	d.Log(SeverityWarn, message, attrs, opts)
}

// Error logs message at SeverityError.
func (d *Dispatcher) Error(message string, attrs Attributes, opts *Options) {
	d.Log(SeverityError, message, attrs, opts)
}

func (d *Dispatcher) snapshot() []Backend {
	if d == nil {
		return nil
	}
	p := d.backends.Load()
	if p == nil {
		return nil
	}
	return *p
}

func invoke(b Backend, severity Severity, message string, attrs Attributes, opts *Options) {
	defer func() {
		_ = recover()
	}()
	b.Log(severity, message, attrs, opts)
}
