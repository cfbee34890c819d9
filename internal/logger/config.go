package logger

import (
	"strings"

	platformconfig "github.com/tigorlazuardi/claw/internal/platform/config"
)

// Config is the environment driven configuration read once by the
// Coordinator.
type Config struct {
	DevMode            bool   `env:"CLAW_DEV_MODE"`
	ServiceName        string `env:"CLAW_SERVICE_NAME" envDefault:"webui"`
	Endpoint           string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogsEndpoint       string `env:"OTEL_EXPORTER_OTLP_LOGS_ENDPOINT"`
	Protocol           string `env:"OTEL_EXPORTER_OTLP_PROTOCOL"`
	LogsProtocol       string `env:"OTEL_EXPORTER_OTLP_LOGS_PROTOCOL"`
	Insecure           bool   `env:"OTEL_EXPORTER_OTLP_INSECURE"`
	ResourceAttributes string `env:"OTEL_RESOURCE_ATTRIBUTES"`
	QueueSize          int    `env:"CLAW_LOG_QUEUE_SIZE" envDefault:"1024"`
	QueueWorkers       int    `env:"CLAW_LOG_QUEUE_WORKERS" envDefault:"1"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := platformconfig.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ExportEndpoint returns the endpoint the remote backend should use. The
// logs specific endpoint takes precedence over the general one. specific
// reports whether the logs endpoint was chosen.
func (c Config) ExportEndpoint() (endpoint string, specific bool) {
	if v := strings.TrimSpace(c.LogsEndpoint); v != "" {
		return v, true
	}
	return strings.TrimSpace(c.Endpoint), false
}

// ExportProtocol returns the logs protocol, falling back to the general one.
func (c Config) ExportProtocol() string {
	if v := strings.TrimSpace(c.LogsProtocol); v != "" {
		return v
	}
	return strings.TrimSpace(c.Protocol)
}
