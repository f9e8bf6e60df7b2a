package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cassiomorais/checkout/internal/bootstrap"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, "checkout-api", "checkout")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	handler, err := app.Handler(ctx)
	if err != nil {
		app.Logger.Error().Err(err).Msg("Failed to build handler")
		app.Close()
		os.Exit(1)
	}

	if err := app.Serve(ctx, handler); err != nil {
		app.Logger.Error().Err(err).Msg("Server error")
		app.Close()
		os.Exit(1)
	}
	app.Logger.Info().Msg("Server exited")
}
