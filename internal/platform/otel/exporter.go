package otel

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"google.golang.org/grpc/credentials"
)

// Protocol names accepted in OTEL_EXPORTER_OTLP_*PROTOCOL.
const (
	ProtocolGRPC         = "grpc"
	ProtocolHTTPProtobuf = "http/protobuf"
)

const logsPath = "/v1/logs"

// ExporterConfig selects and configures an OTLP log exporter.
type ExporterConfig struct {
	// Endpoint is the collector URL.
	Endpoint string
	// SignalSpecific is true when Endpoint came from a logs-only setting and
	// is used verbatim. General endpoints get /v1/logs appended for HTTP.
	SignalSpecific bool
	// Protocol is "grpc" or an HTTP protocol. Empty means HTTP.
	Protocol string
	// Insecure selects a plaintext connection instead of TLS.
	Insecure bool
}

// NewLogExporter creates an OTLP log exporter for cfg.
func NewLogExporter(ctx context.Context, cfg ExporterConfig) (sdklog.Exporter, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("otlp log endpoint is required")
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Protocol), ProtocolGRPC) {
		opts := []otlploggrpc.Option{otlploggrpc.WithEndpointURL(endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploggrpc.WithInsecure())
		} else {
			opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(&tls.Config{})))
		}
		exporter, err := otlploggrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp grpc log exporter: %w", err)
		}
		return exporter, nil
	}

	target, err := LogsURL(endpoint, cfg.SignalSpecific)
	if err != nil {
		return nil, err
	}
	opts := []otlploghttp.Option{otlploghttp.WithEndpointURL(target)}
	if cfg.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}
	exporter, err := otlploghttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp http log exporter: %w", err)
	}
	return exporter, nil
}

// LogsURL returns the HTTP URL logs are posted to. Signal specific endpoints
// are returned unchanged.
func LogsURL(endpoint string, signalSpecific bool) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid otlp endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid otlp endpoint %q: scheme and host are required", endpoint)
	}
	if signalSpecific {
		return endpoint, nil
	}
	u.Path = strings.TrimRight(u.Path, "/") + logsPath
	return u.String(), nil
}

// NewLoggerProvider creates a batching logger provider for exporter. Records
// carry exactly res.
func NewLoggerProvider(exporter sdklog.Exporter, res *resource.Resource) *sdklog.LoggerProvider {
	opts := []sdklog.LoggerProviderOption{
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	}
	if res != nil {
		hideEnvironmentResource()
		opts = append(opts, sdklog.WithResource(res))
	}
	return sdklog.NewLoggerProvider(opts...)
}

// resourceAttributesEnv is parsed by ParseAttributes through the service
// config. The SDK merges resource.Environment() beneath every configured
// resource and would reparse it with its own rules, bringing back pairs
// ParseAttributes drops, so it is removed once res has been built.
const resourceAttributesEnv = "OTEL_RESOURCE_ATTRIBUTES"

func hideEnvironmentResource() {
	if err := os.Unsetenv(resourceAttributesEnv); err != nil {
		log.Printf("otel: unset %s: %v", resourceAttributesEnv, err)
	}
}
