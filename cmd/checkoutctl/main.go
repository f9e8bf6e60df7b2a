package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:     "checkoutctl",
		Short:   "Operate a running checkout API",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = observability.InitLogger(logLevel, os.Stderr)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("url", envOr("CHECKOUT_API_URL", "http://localhost:8080"), "Base URL of the checkout API")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(statusCmd())
	cmd.AddCommand(waitCmd())
	cmd.AddCommand(simulateWebhookCmd())

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
