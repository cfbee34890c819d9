package logger

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	otellog "go.opentelemetry.io/otel/log"
)

// RemoteBackend forwards log entries to an OpenTelemetry logger. Emission
// runs on a Queue, so Log returns without waiting for serialization or
// transport.
type RemoteBackend struct {
	endpoint string
	logger   otellog.Logger
	queue    *Queue
}

// NewRemoteBackend creates a backend that emits through logger. endpoint is
// informational. A nil queue emits synchronously on the caller goroutine.
func NewRemoteBackend(endpoint string, logger otellog.Logger, queue *Queue) *RemoteBackend {
	return &RemoteBackend{endpoint: endpoint, logger: logger, queue: queue}
}

// Endpoint returns the collector endpoint the backend was configured for.
func (b *RemoteBackend) Endpoint() string {
	return b.endpoint
}

// Flush waits for queued emissions to reach the logger.
func (b *RemoteBackend) Flush(ctx context.Context) error {
	if b == nil {
		return nil
	}
	return b.queue.Flush(ctx)
}

// Log implements Backend.
func (b *RemoteBackend) Log(severity Severity, message string, attrs Attributes, opts *Options) {
	if b == nil || b.logger == nil {
		return
	}
	record := newRecord(severity, message, attrs, opts)
	ctx := opts.context()
	emit := func() { b.logger.Emit(ctx, record) }
	if b.queue == nil {
		emit()
		return
	}
	b.queue.Submit(emit)
}

func newRecord(severity Severity, message string, attrs Attributes, opts *Options) otellog.Record {
	var record otellog.Record
	if opts != nil {
		if !opts.Timestamp.IsZero() {
			record.SetTimestamp(opts.Timestamp)
		}
		if !opts.ObservedTimestamp.IsZero() {
			record.SetObservedTimestamp(opts.ObservedTimestamp)
		}
		if opts.EventName != "" {
			record.SetEventName(opts.EventName)
		}
	}
	record.SetSeverity(severity.otel())
	record.SetSeverityText(severity.String())
	record.SetBody(otellog.StringValue(message))
	if attrs != nil {
		record.AddAttributes(keyValues(attrs)...)
	}
	return record
}

// keyValues converts attrs in key order so exported records are stable.
func keyValues(attrs Attributes) []otellog.KeyValue {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]otellog.KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, otellog.KeyValue{Key: k, Value: toValue(attrs[k])})
	}
	return out
}

func toValue(v any) otellog.Value {
	switch v := v.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int8:
		return otellog.Int64Value(int64(v))
	case int16:
		return otellog.Int64Value(int64(v))
	case int32:
		return otellog.Int64Value(int64(v))
	case int64:
		return otellog.Int64Value(v)
	case uint8:
		return otellog.Int64Value(int64(v))
	case uint16:
		return otellog.Int64Value(int64(v))
	case uint32:
		return otellog.Int64Value(int64(v))
	case uint:
		return otellog.StringValue(fmt.Sprint(v))
	case uint64:
		return otellog.StringValue(fmt.Sprint(v))
	case float32:
		return otellog.Float64Value(float64(v))
	case float64:
		return otellog.Float64Value(v)
	case []byte:
		// Emission runs on a queue worker after Log returns.
		return otellog.BytesValue(bytes.Clone(v))
	case []string:
		return sliceValue(v)
	case []bool:
		return sliceValue(v)
	case []int:
		return sliceValue(v)
	case []int64:
		return sliceValue(v)
	case []float64:
		return sliceValue(v)
	case []any:
		return sliceValue(v)
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}

func sliceValue[T any](items []T) otellog.Value {
	values := make([]otellog.Value, len(items))
	for i, item := range items {
		values[i] = toValue(item)
	}
	return otellog.SliceValue(values...)
}
