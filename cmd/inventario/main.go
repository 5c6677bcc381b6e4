// Package main runs the inventario store initialization and status CLI.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	inventariocmd "github.com/rfigueredo/inventario/internal/cmd/inventario"
	"github.com/rfigueredo/inventario/internal/platform/config"
)

func main() {
	cfg, err := inventariocmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := inventariocmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
