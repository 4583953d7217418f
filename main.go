package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rateconv/internal/cli"
	"rateconv/internal/logger"
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, stop := shutdownContext(context.Background())
	defer stop()

	err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	_ = logger.Log.Sync()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// shutdownContext returns a context that is cancelled on interrupt or
// SIGTERM.
func shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
