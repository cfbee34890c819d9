package logger

import (
	"context"
	"sync"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
)

type consoleCall struct {
	channel string
	args    []any
}

type recordingConsole struct {
	calls []consoleCall
}

func (c *recordingConsole) Debug(args ...any) { c.record("debug", args) }
func (c *recordingConsole) Info(args ...any)  { c.record("info", args) }
func (c *recordingConsole) Warn(args ...any)  { c.record("warn", args) }
func (c *recordingConsole) Error(args ...any) { c.record("error", args) }

func (c *recordingConsole) record(channel string, args []any) {
	c.calls = append(c.calls, consoleCall{channel: channel, args: args})
}

type panickingConsole struct{}

func (panickingConsole) Debug(args ...any) { panic("debug") }
func (panickingConsole) Info(args ...any)  { panic("info") }
func (panickingConsole) Warn(args ...any)  { panic("warn") }
func (panickingConsole) Error(args ...any) { panic("error") }

type emitted struct {
	ctx    context.Context
	record otellog.Record
}

type fakeLogger struct {
	embedded.Logger

	mu      sync.Mutex
	records []emitted
	block   chan struct{}
}

func (l *fakeLogger) Emit(ctx context.Context, record otellog.Record) {
	if l.block != nil {
		<-l.block
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, emitted{ctx: ctx, record: record})
}

func (l *fakeLogger) Enabled(context.Context, otellog.EnabledParameters) bool {
	return true
}

func (l *fakeLogger) Records() []emitted {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]emitted, len(l.records))
	copy(out, l.records)
	return out
}
