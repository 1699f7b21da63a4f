package main

import (
	"fmt"

	"github.com/spf13/cobra"

	connector "github.com/aussiebroadwan/scaconnect/internal/connector/app"
	ledgers "github.com/aussiebroadwan/scaconnect/internal/ledgers/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the connector",
		Long: `Run the connector against the ledgers backend at LEDGERS_URL.

Examples:
  LEDGERS_URL=http://ledgers:8081 scaconnect serve
  REPLAY_GUARD=redis REDIS_ADDR=redis:6379 scaconnect serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			app, err := connector.New(connector.LoadConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize connector: %w", err)
			}
			return app.Run(ctx)
		},
	}
}

func newLedgersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledgers",
		Short: "Run the ledgers sandbox",
		Long: `Run a ledgers sandbox with seeded PSUs. It implements the backend API the
connector talks to and is meant for development and tests only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			app, err := ledgers.New(ledgers.LoadConfig())
			if err != nil {
				return fmt.Errorf("failed to initialize ledgers sandbox: %w", err)
			}
			return app.Run(ctx)
		},
	}
}
