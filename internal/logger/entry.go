package logger

import (
	"context"
	"time"
)

// Attributes are structured fields attached to a log entry. Values should be
// scalars (string, bool, integers, floats) or slices of scalars.
type Attributes map[string]any

// Options carries optional extras for a single log call.
type Options struct {
	// EventName is prefixed to console output as "[EventName] message" and
	// exported as the record event name.
	EventName string
	// Timestamp overrides the record timestamp. Zero leaves it unset.
	Timestamp time.Time
	// ObservedTimestamp overrides the observed timestamp. Zero leaves it
	// unset so the SDK fills it in.
	ObservedTimestamp time.Time
	// Context carries trace context for correlation. Nil means background.
	Context context.Context
}

func (o *Options) eventName() string {
	if o == nil {
		return ""
	}
	return o.EventName
}

func (o *Options) context() context.Context {
	if o == nil || o.Context == nil {
		return context.Background()
	}
	return o.Context
}
