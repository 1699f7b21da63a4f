package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	connector "github.com/aussiebroadwan/scaconnect/internal/connector/app"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "scaconnect",
		Short: "XS2A connector driving a ledgers backend through SCA",
		Long: `scaconnect drives consents and payments of a ledgers backend through
Strong Customer Authentication. It ships the connector itself, a ledgers
sandbox to develop against, and tools to inspect authorisation tokens.

Configuration is read from the environment; a .env file is loaded first
when present.`,
		Version:      connector.BuildVersion,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing default .env is fine, an explicit one must exist
			if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.SetVersionTemplate(`{{printf "scaconnect version %s\n" .Version}}`)

	root.AddCommand(
		newServeCmd(),
		newLedgersCmd(),
		newDevCmd(),
		newTokenCmd(),
	)
	return root
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
