// Package timeouts defines shared timeout constants used across commands.
// Centralizing these values keeps shutdown behaviour consistent and makes
// the durations discoverable.
package timeouts

import "time"

// TelemetryShutdown caps how long a command waits for pending log exports
// and spans to flush on exit.
const TelemetryShutdown = 5 * time.Second
