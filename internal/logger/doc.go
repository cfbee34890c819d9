// Package logger routes leveled log entries to a set of pluggable backends.
//
// A Dispatcher owns an ordered, append-only registry of Backend values and
// fans every call out to each of them in registration order. Two backends are
// provided: ConsoleBackend renders to a console-like sink for local
// development, and RemoteBackend hands records to an OpenTelemetry logger
// through a bounded export Queue so callers never wait on the network.
//
// Which backends are registered is decided once at startup by a Coordinator
// from environment configuration:
//
//   - CLAW_DEV_MODE registers the console backend.
//   - OTEL_EXPORTER_OTLP_LOGS_ENDPOINT, or else OTEL_EXPORTER_OTLP_ENDPOINT,
//     registers the remote backend for that endpoint.
//
// With neither set the registry stays empty and every log call is a no-op.
package logger
