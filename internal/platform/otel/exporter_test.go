package otel

import (
	"context"
	"sync"
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type captureExporter struct {
	mu        sync.Mutex
	resources []map[string]string
}

func (e *captureExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range records {
		res := records[i].Resource()
		attrs := map[string]string{}
		for _, kv := range res.Attributes() {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		e.resources = append(e.resources, attrs)
	}
	return nil
}

func (e *captureExporter) Shutdown(context.Context) error   { return nil }
func (e *captureExporter) ForceFlush(context.Context) error { return nil }

func (e *captureExporter) exported(t *testing.T) map[string]string {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.resources) != 1 {
		t.Fatalf("expected 1 exported record, got %d", len(e.resources))
	}
	return e.resources[0]
}

func emitOne(t *testing.T, provider *sdklog.LoggerProvider) {
	t.Helper()
	var record otellog.Record
	record.SetBody(otellog.StringValue("hello"))
	provider.Logger("test").Emit(context.Background(), record)
	if err := provider.ForceFlush(context.Background()); err != nil {
		t.Fatalf("flush logger provider: %v", err)
	}
}

func fixedInstance(id string) resource.Detector {
	return InstanceDetector{NewID: func() string { return id }}
}

func TestLogsURL(t *testing.T) {
	tests := []struct {
		endpoint string
		specific bool
		want     string
	}{
		{"https://collector:4318", false, "https://collector:4318/v1/logs"},
		{"https://collector:4318/", false, "https://collector:4318/v1/logs"},
		{"https://collector/otlp", false, "https://collector/otlp/v1/logs"},
		{"https://collector/custom/logs", true, "https://collector/custom/logs"},
	}
	for _, tt := range tests {
		got, err := LogsURL(tt.endpoint, tt.specific)
		if err != nil {
			t.Fatalf("LogsURL(%q) error = %v", tt.endpoint, err)
		}
		if got != tt.want {
			t.Fatalf("LogsURL(%q, %t) = %q, want %q", tt.endpoint, tt.specific, got, tt.want)
		}
	}
}

func TestLogsURLRejectsRelative(t *testing.T) {
	if _, err := LogsURL("collector:4318", false); err == nil {
		t.Fatal("expected error for endpoint without scheme")
	}
}

func TestNewLogExporterRequiresEndpoint(t *testing.T) {
	if _, err := NewLogExporter(context.Background(), ExporterConfig{}); err == nil {
		t.Fatal("expected missing endpoint error")
	}
}

func TestNewLogExporterProtocols(t *testing.T) {
	tests := []ExporterConfig{
		{Endpoint: "http://192.0.2.1:4318", Insecure: true},
		{Endpoint: "https://192.0.2.1:4318/v1/logs", SignalSpecific: true, Protocol: ProtocolHTTPProtobuf},
		{Endpoint: "http://192.0.2.1:4317", Protocol: ProtocolGRPC, Insecure: true},
		{Endpoint: "https://192.0.2.1:4317", Protocol: "GRPC"},
	}
	for _, cfg := range tests {
		exporter, err := NewLogExporter(context.Background(), cfg)
		if err != nil {
			t.Fatalf("NewLogExporter(%+v) error = %v", cfg, err)
		}
		provider := NewLoggerProvider(exporter, nil)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown provider for %+v: %v", cfg, err)
		}
	}
}

func TestNewLoggerProviderExportsParsedAttributesOnly(t *testing.T) {
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "a=,b=2,=c")

	res, err := BuildResource(context.Background(), ResourceConfig{
		Detectors:  []resource.Detector{fixedInstance("inst-1")},
		Attributes: "a=,b=2,=c",
	})
	if err != nil {
		t.Fatalf("BuildResource() error = %v", err)
	}
	exporter := &captureExporter{}
	provider := NewLoggerProvider(exporter, res)
	defer provider.Shutdown(context.Background())
	emitOne(t, provider)

	got := exporter.exported(t)
	if v, ok := got["a"]; ok {
		t.Fatalf("exported resource contains a=%q, want it dropped", v)
	}
	if v, ok := got[""]; ok {
		t.Fatalf("exported resource contains empty key with %q", v)
	}
	if got["b"] != "2" {
		t.Fatalf("b = %q, want 2", got["b"])
	}
	if got["service.instance.id"] != "inst-1" {
		t.Fatalf("service.instance.id = %q, want inst-1", got["service.instance.id"])
	}
	if got["service.name"] != DefaultServiceName {
		t.Fatalf("service.name = %q, want %q", got["service.name"], DefaultServiceName)
	}
}

func TestProvidersShareResource(t *testing.T) {
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "a=")

	res, err := BuildResource(context.Background(), ResourceConfig{
		Detectors:   []resource.Detector{InstanceDetector{}},
		ServiceName: "shared",
	})
	if err != nil {
		t.Fatalf("BuildResource() error = %v", err)
	}

	logExporter := &captureExporter{}
	lp := NewLoggerProvider(logExporter, res)
	defer lp.Shutdown(context.Background())
	emitOne(t, lp)

	spanExporter := tracetest.NewInMemoryExporter()
	tp := NewTracerProvider(spanExporter, res)
	defer tp.Shutdown(context.Background())
	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()
	if err := tp.ForceFlush(context.Background()); err != nil {
		t.Fatalf("flush tracer provider: %v", err)
	}
	spans := spanExporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	logID := logExporter.exported(t)["service.instance.id"]
	spanID, ok := valueOf(t, spans[0].Resource, "service.instance.id")
	if !ok || logID == "" {
		t.Fatalf("missing instance id: log %q, span %q", logID, spanID)
	}
	if logID != spanID {
		t.Fatalf("log instance id %q != span instance id %q", logID, spanID)
	}
	if _, ok := valueOf(t, spans[0].Resource, "a"); ok {
		t.Fatal("span resource contains attribute a")
	}
}
