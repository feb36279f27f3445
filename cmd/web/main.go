package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"trendcli/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		application.Logger.Error("Application failed", "error", err)
		os.Exit(1)
	}
}
