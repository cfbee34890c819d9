package otel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// ServiceNamespace is the service.namespace attached to every resource.
	ServiceNamespace = "claw"
	// DefaultServiceName is the service.name used when none is configured.
	DefaultServiceName = "webui"
)

// ResourceConfig controls BuildResource.
type ResourceConfig struct {
	// Detectors produce the base attribute set. Nil uses DefaultDetectors.
	Detectors []resource.Detector
	// Attributes is a comma-separated key=value list, typically
	// OTEL_RESOURCE_ATTRIBUTES.
	Attributes string
	// ServiceName overrides DefaultServiceName.
	ServiceName string
}

// DefaultDetectors returns the platform detectors used for the base
// attribute set.
func DefaultDetectors() []resource.Detector {
	return []resource.Detector{
		detectorOf(resource.WithHost()),
		detectorOf(resource.WithOS()),
		detectorOf(resource.WithProcessRuntimeName(), resource.WithProcessRuntimeVersion()),
		detectorOf(resource.WithContainer()),
		detectorOf(resource.WithTelemetrySDK()),
		InstanceDetector{},
	}
}

// BuildResource assembles the resource attached to exported telemetry.
// Sources are merged in order, later sources overriding earlier ones on the
// same key: detectors, service.namespace, cfg.Attributes, service.name.
func BuildResource(ctx context.Context, cfg ResourceConfig) (*resource.Resource, error) {
	detectors := cfg.Detectors
	if detectors == nil {
		detectors = DefaultDetectors()
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	res, err := detect(ctx, detectors)
	if err != nil {
		return nil, err
	}
	res, err = MergeAttributes(res, semconv.ServiceNamespace(ServiceNamespace))
	if err != nil {
		return nil, err
	}
	if parsed := ParseAttributes(cfg.Attributes); len(parsed) > 0 {
		res, err = MergeAttributes(res, toKeyValues(parsed)...)
		if err != nil {
			return nil, err
		}
	}
	return MergeAttributes(res, semconv.ServiceName(serviceName))
}

// MergeAttributes returns base with attrs merged on top. attrs win on key
// collision.
func MergeAttributes(base *resource.Resource, attrs ...attribute.KeyValue) (*resource.Resource, error) {
	if base == nil {
		base = resource.Empty()
	}
	merged, err := resource.Merge(base, resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, fmt.Errorf("merge resource attributes: %w", err)
	}
	return merged, nil
}

// ParseAttributes parses a comma-separated list of key=value pairs. Each
// pair is split on its first '='; keys and values are trimmed and pairs with
// an empty key or value are dropped. Later duplicates win.
func ParseAttributes(s string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, raw := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func toKeyValues(attrs map[string]string) []attribute.KeyValue {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]attribute.KeyValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, attribute.String(k, attrs[k]))
	}
	return out
}

// detect runs each detector and merges the results in order. A detector
// that reports a partial resource still contributes what it found; any other
// detector error aborts the build.
func detect(ctx context.Context, detectors []resource.Detector) (*resource.Resource, error) {
	res := resource.Empty()
	for _, d := range detectors {
		if d == nil {
			continue
		}
		found, err := d.Detect(ctx)
		if err != nil && !errors.Is(err, resource.ErrPartialResource) {
			return nil, fmt.Errorf("detect resource: %w", err)
		}
		if found == nil {
			continue
		}
		merged, err := resource.Merge(res, found)
		if err != nil {
			// Detectors pinned to different semantic convention versions
			// cannot share a schema URL; keep the attributes without it.
			merged, err = resource.Merge(res, resource.NewSchemaless(found.Attributes()...))
			if err != nil {
				return nil, fmt.Errorf("merge detected resource: %w", err)
			}
		}
		res = merged
	}
	return res, nil
}

// InstanceDetector sets service.instance.id to a random UUID.
type InstanceDetector struct {
	// NewID overrides the ID generator, for tests.
	NewID func() string
}

// Detect implements resource.Detector.
func (d InstanceDetector) Detect(context.Context) (*resource.Resource, error) {
	newID := d.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return resource.NewSchemaless(semconv.ServiceInstanceID(newID())), nil
}

// optionDetector runs resource.New with a fixed option set.
type optionDetector struct {
	opts []resource.Option
}

func detectorOf(opts ...resource.Option) resource.Detector {
	return optionDetector{opts: opts}
}

// Detect implements resource.Detector.
func (d optionDetector) Detect(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx, d.opts...)
}
