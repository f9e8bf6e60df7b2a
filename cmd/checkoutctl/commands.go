package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cassiomorais/checkout/internal/client"
	"github.com/cassiomorais/checkout/internal/domain/reconciliation"
	"github.com/spf13/cobra"
)

func apiClient(cmd *cobra.Command) *client.Client {
	url, _ := cmd.Flags().GetString("url")
	return client.New(url)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [ref]",
		Short: "Print the payment status of an external reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := apiClient(cmd).Status(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}
}

func waitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait [ref]",
		Short: "Poll until an external reference is paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			status, err := client.NewPoller(apiClient(cmd), interval).Wait(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%s not paid: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			return nil
		},
	}

	cmd.Flags().Duration("interval", client.DefaultPollInterval, "Time between status checks")
	cmd.Flags().Duration("timeout", 10*time.Minute, "Give up after this long (0 waits forever)")

	return cmd
}

func simulateWebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate-webhook [ref]",
		Short: "Send an Asaas webhook delivery for an external reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, _ := cmd.Flags().GetString("event")
			token, _ := cmd.Flags().GetString("token")
			if token == "" {
				token = os.Getenv("ASAAS_WEBHOOK_TOKEN")
			}

			evt := reconciliation.WebhookEvent{
				Event:   reconciliation.EventType(event),
				Payment: reconciliation.WebhookPayment{ExternalReference: args[0]},
			}
			if err := apiClient(cmd).SendWebhook(cmd.Context(), token, evt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s delivered for %s\n", event, args[0])
			return nil
		},
	}

	cmd.Flags().StringP("event", "e", string(reconciliation.EventPaymentReceived), "Webhook event name")
	cmd.Flags().StringP("token", "t", "", "Webhook token (defaults to ASAAS_WEBHOOK_TOKEN)")

	return cmd
}
