package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tigorlazuardi/claw/internal/logger"
	"github.com/tigorlazuardi/claw/internal/platform/config"
	"github.com/tigorlazuardi/claw/internal/platform/otel"
	"github.com/tigorlazuardi/claw/internal/platform/timeouts"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ServiceLogEmit identifies the logemit command in telemetry and log prefixes.
const ServiceLogEmit = "logemit"

// setupTracing is replaced in tests to observe the tracing resource.
var setupTracing = otel.SetupTracing

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	// Logging overrides the environment log configuration.
	Logging *logger.Config
	// Coordinator passes options to the log setup coordinator.
	Coordinator []logger.CoordinatorOption
	// Detectors replaces the default resource detectors.
	Detectors []resource.Detector
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetryAndOptions configures observability and executes a service run loop.
//
// One resource is built and shared by the tracer and logger providers.
// Telemetry setup failures are logged and do not stop the service; the
// dispatcher keeps whatever backends were registered before the failure.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context, *logger.Dispatcher) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logCfg := options.Logging
	if logCfg == nil {
		loaded, err := logger.LoadConfig()
		if err != nil {
			return err
		}
		logCfg = &loaded
	}

	otel.LogErrors(service + " ")
	shutdownTracing := func(context.Context) error { return nil }
	coordinatorOpts := options.Coordinator
	res, err := otel.BuildResource(ctx, otel.ResourceConfig{
		Detectors:   options.Detectors,
		Attributes:  logCfg.ResourceAttributes,
		ServiceName: logCfg.ServiceName,
	})
	if err != nil {
		log.Printf("%s otel resource: %v", service, err)
	} else {
		coordinatorOpts = append([]logger.CoordinatorOption{logger.WithResource(res)}, coordinatorOpts...)
		shutdown, err := setupTracing(ctx, res)
		if err != nil {
			log.Printf("%s otel tracing: %v", service, err)
		} else {
			shutdownTracing = shutdown
		}
	}

	dispatcher := logger.NewDispatcher()
	coordinator := logger.NewCoordinator(dispatcher, *logCfg, coordinatorOpts...)
	if err := coordinator.Setup(ctx); err != nil {
		log.Printf("%s log setup: %v", service, err)
	}

	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = timeouts.TelemetryShutdown
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := coordinator.Shutdown(shutdownCtx); err != nil {
			log.Printf("%s log shutdown: %v", service, err)
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx, dispatcher)
}
