package logger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	platformotel "github.com/tigorlazuardi/claw/internal/platform/otel"
	"go.opentelemetry.io/otel/sdk/resource"
)

// instrumentationName names the OpenTelemetry logger used by the remote
// backend.
const instrumentationName = "github.com/tigorlazuardi/claw/internal/logger"

// Remote is a configured remote backend plus the function releasing its
// export resources.
type Remote struct {
	Backend  *RemoteBackend
	Shutdown func(context.Context) error
}

// RemoteRequest describes the remote backend Setup wants created.
type RemoteRequest struct {
	Endpoint       string
	SignalSpecific bool
	Protocol       string
	Insecure       bool
	Resource       *resource.Resource
	Queue          QueueConfig
}

// RemoteFactory creates the remote backend. It is resolved when the
// Coordinator is built and only called when an endpoint is configured.
type RemoteFactory func(ctx context.Context, req RemoteRequest) (Remote, error)

// Coordinator decides, once per process, which backends to register.
type Coordinator struct {
	dispatcher *Dispatcher
	cfg        Config
	console    Console
	newRemote  RemoteFactory
	detectors  []resource.Detector
	resource   *resource.Resource

	once     sync.Once
	err      error
	shutdown []func(context.Context) error
}

// CoordinatorOption customises a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithConsole sets the sink used by the console backend.
func WithConsole(c Console) CoordinatorOption {
	return func(co *Coordinator) {
		co.console = c
	}
}

// WithRemoteFactory replaces the OTLP backed remote factory.
func WithRemoteFactory(f RemoteFactory) CoordinatorOption {
	return func(co *Coordinator) {
		if f != nil {
			co.newRemote = f
		}
	}
}

// WithDetectors replaces the resource detectors.
func WithDetectors(detectors ...resource.Detector) CoordinatorOption {
	return func(co *Coordinator) {
		co.detectors = detectors
	}
}

// WithResource makes Setup export with res instead of building its own, so
// logs share the resource of other signals in the process.
func WithResource(res *resource.Resource) CoordinatorOption {
	return func(co *Coordinator) {
		co.resource = res
	}
}

// NewCoordinator creates a coordinator registering into d.
func NewCoordinator(d *Dispatcher, cfg Config, opts ...CoordinatorOption) *Coordinator {
	co := &Coordinator{
		dispatcher: d,
		cfg:        cfg,
		newRemote:  NewOTLPRemote,
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// Setup registers backends according to the configuration:
//
//   - dev mode registers a console backend;
//   - the logs endpoint, or else the general endpoint, registers a remote
//     backend for that endpoint;
//   - with neither endpoint no remote backend is registered.
//
// Only the first call does any work; later calls return its result.
func (co *Coordinator) Setup(ctx context.Context) error {
	co.once.Do(func() {
		co.err = co.setup(ctx)
	})
	return co.err
}

func (co *Coordinator) setup(ctx context.Context) error {
	if co.dispatcher == nil {
		return errors.New("dispatcher is required")
	}
	if co.cfg.DevMode {
		co.dispatcher.Register(NewConsoleBackend(co.console))
	}

	endpoint, specific := co.cfg.ExportEndpoint()
	if endpoint == "" {
		return nil
	}

	res, err := co.buildResource(ctx)
	if err != nil {
		return err
	}
	remote, err := co.newRemote(ctx, RemoteRequest{
		Endpoint:       endpoint,
		SignalSpecific: specific,
		Protocol:       co.cfg.ExportProtocol(),
		Insecure:       co.cfg.Insecure,
		Resource:       res,
		Queue: QueueConfig{
			Size:    co.cfg.QueueSize,
			Workers: co.cfg.QueueWorkers,
		},
	})
	if err != nil {
		return fmt.Errorf("create remote log backend: %w", err)
	}
	if remote.Shutdown != nil {
		co.shutdown = append(co.shutdown, remote.Shutdown)
	}
	if remote.Backend != nil {
		co.dispatcher.Register(remote.Backend)
	}
	return nil
}

func (co *Coordinator) buildResource(ctx context.Context) (*resource.Resource, error) {
	if co.resource != nil {
		return co.resource, nil
	}
	res, err := platformotel.BuildResource(ctx, platformotel.ResourceConfig{
		Detectors:   co.detectors,
		Attributes:  co.cfg.ResourceAttributes,
		ServiceName: co.cfg.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}
	return res, nil
}

// Shutdown drains pending exports and releases exporter resources. It is
// safe to call when Setup registered nothing.
func (co *Coordinator) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range co.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	co.shutdown = nil
	return errors.Join(errs...)
}

// NewOTLPRemote is the default RemoteFactory. It wires an OTLP exporter into
// a batching logger provider and runs emission on a Queue.
func NewOTLPRemote(ctx context.Context, req RemoteRequest) (Remote, error) {
	exporter, err := platformotel.NewLogExporter(ctx, platformotel.ExporterConfig{
		Endpoint:       req.Endpoint,
		SignalSpecific: req.SignalSpecific,
		Protocol:       req.Protocol,
		Insecure:       req.Insecure,
	})
	if err != nil {
		return Remote{}, err
	}
	provider := platformotel.NewLoggerProvider(exporter, req.Resource)
	queue := NewQueue(req.Queue)
	backend := NewRemoteBackend(req.Endpoint, provider.Logger(instrumentationName), queue)

	shutdown := func(ctx context.Context) error {
		var errs []error
		if err := queue.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain log queue: %w", err))
		}
		if dropped := queue.Dropped(); dropped > 0 {
			log.Printf("remote log backend dropped %d records", dropped)
		}
		if err := provider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown logger provider: %w", err))
		}
		return errors.Join(errs...)
	}
	return Remote{Backend: backend, Shutdown: shutdown}, nil
}
