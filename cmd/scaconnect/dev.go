package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	connector "github.com/aussiebroadwan/scaconnect/internal/connector/app"
	ledgers "github.com/aussiebroadwan/scaconnect/internal/ledgers/app"
)

func newDevCmd() *cobra.Command {
	var inMemory bool

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the ledgers sandbox and the connector in one process",
		Long: `Run the ledgers sandbox and a connector pointed at it. Stopping either stops
both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			lcfg := ledgers.LoadConfig()
			if inMemory {
				lcfg.DatabaseFile = ":memory:"
			}
			sandbox, err := ledgers.New(lcfg)
			if err != nil {
				return fmt.Errorf("failed to initialize ledgers sandbox: %w", err)
			}

			ccfg := connector.LoadConfig()
			ccfg.LedgersURL = fmt.Sprintf("http://localhost:%d", lcfg.Port)
			app, err := connector.New(ccfg)
			if err != nil {
				_ = sandbox.Shutdown()
				return fmt.Errorf("failed to initialize connector: %w", err)
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return sandbox.Run(gctx) })
			g.Go(func() error { return app.Run(gctx) })
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&inMemory, "in-memory", true, "keep the sandbox database in memory")
	return cmd
}
