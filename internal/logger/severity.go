package logger

import otellog "go.opentelemetry.io/otel/log"

// Severity is an ordered log level. Higher values are more urgent. Values are
// not restricted to the named constants; routing decisions compare with >=.
type Severity int

// Named thresholds used by the leveled API and the console backend.
const (
	SeverityDebug Severity = 5
	SeverityInfo  Severity = 9
	SeverityWarn  Severity = 13
	SeverityError Severity = 17
)

var severityText = [...]string{
	"",
	"TRACE", "TRACE2", "TRACE3", "TRACE4",
	"DEBUG", "DEBUG2", "DEBUG3", "DEBUG4",
	"INFO", "INFO2", "INFO3", "INFO4",
	"WARN", "WARN2", "WARN3", "WARN4",
	"ERROR", "ERROR2", "ERROR3", "ERROR4",
	"FATAL", "FATAL2", "FATAL3", "FATAL4",
}

// String returns the OpenTelemetry severity label, or "" when s is outside
// the defined 1..24 range.
func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityText) {
		return ""
	}
	return severityText[s]
}

// otel converts s to the OpenTelemetry log severity.
func (s Severity) otel() otellog.Severity {
	return otellog.Severity(s)
}
