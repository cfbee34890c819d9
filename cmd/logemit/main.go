// Package main emits a single log entry through the claw log dispatcher.
//
// It is a smoke test for collector wiring: with CLAW_DEV_MODE the entry is
// printed to the console, and with an OTLP endpoint configured it is exported.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	logemitcmd "github.com/tigorlazuardi/claw/internal/cmd/logemit"
	"github.com/tigorlazuardi/claw/internal/platform/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		config.Exitf("load env file: %v", err)
	}
	cfg, err := logemitcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[LOGEMIT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := logemitcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to emit: %v", err)
	}
}
