package logemit

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tigorlazuardi/claw/internal/logger"
	platformcmd "github.com/tigorlazuardi/claw/internal/platform/cmd"
)

// Config holds the logemit command configuration.
type Config struct {
	Level           string        `env:"CLAW_LOGEMIT_LEVEL" envDefault:"info"`
	Message         string        `env:"CLAW_LOGEMIT_MESSAGE"`
	Event           string        `env:"CLAW_LOGEMIT_EVENT"`
	Dev             bool          `env:"CLAW_DEV_MODE"`
	ShutdownTimeout time.Duration `env:"CLAW_LOGEMIT_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	Attributes      logger.Attributes
}

// ParseConfig loads env defaults and parses flags into a Config. Flags
// override their environment counterparts.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Attributes: logger.Attributes{}}

	fs.StringVar(&cfg.Level, "level", "", "Severity name (debug, info, warn, error) or number")
	fs.StringVar(&cfg.Message, "message", "", "Log message")
	fs.StringVar(&cfg.Event, "event", "", "Event name")
	fs.BoolVar(&cfg.Dev, "dev", false, "Also print to the console")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 0, "Time allowed to flush exports")
	fs.Func("attr", "Attribute as key=value (repeatable)", func(raw string) error {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("attribute %q must be key=value", raw)
		}
		cfg.Attributes[key] = strings.TrimSpace(value)
		return nil
	})
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Message) == "" {
		return Config{}, fmt.Errorf("message is required")
	}
	if _, err := ParseSeverity(cfg.Level); err != nil {
		return Config{}, err
	}
	if len(cfg.Attributes) == 0 {
		cfg.Attributes = nil
	}
	return cfg, nil
}

// ParseSeverity resolves a severity name or number.
func ParseSeverity(s string) (logger.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logger.SeverityDebug, nil
	case "info", "":
		return logger.SeverityInfo, nil
	case "warn", "warning":
		return logger.SeverityWarn, nil
	case "error":
		return logger.SeverityError, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("unknown severity %q", s)
	}
	return logger.Severity(n), nil
}

// Run dispatches one log entry through the configured backends and waits for
// exports to drain.
func Run(ctx context.Context, cfg Config, coordinatorOpts ...logger.CoordinatorOption) error {
	severity, err := ParseSeverity(cfg.Level)
	if err != nil {
		return err
	}
	logCfg, err := logger.LoadConfig()
	if err != nil {
		return err
	}
	logCfg.DevMode = logCfg.DevMode || cfg.Dev

	options := platformcmd.RunOptions{
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logging:         &logCfg,
		Coordinator:     coordinatorOpts,
	}
	return platformcmd.RunWithTelemetryAndOptions(ctx, platformcmd.ServiceLogEmit, options, func(ctx context.Context, d *logger.Dispatcher) error {
		d.Log(severity, cfg.Message, cfg.Attributes, &logger.Options{
			EventName: cfg.Event,
			Context:   ctx,
		})
		return nil
	})
}
