package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayledger/cmd/bootstrap"
	"stayledger/cmd/bootstrap/components"
	"stayledger/internal/usecase/syncer"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// withEngine starts the core graph, hands the engine to fn and stops the graph.
func withEngine(ctx context.Context, fn func(ctx context.Context, engine *syncer.Engine) error, extra ...fx.Option) error {
	var engine *syncer.Engine
	opts := append([]fx.Option{
		bootstrap.CoreModule,
		fx.Populate(&engine),
		fx.NopLogger,
	}, extra...)
	app := fx.New(opts...)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()
	return fn(ctx, engine)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSyncCommand() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Apply new ledger events to the projection",
		Long: `Resume from the persisted cursor and apply ledger events to the projection.

With --once a single poll cycle runs and its report is printed. Otherwise the
poll, prune and reconcile loops run until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if once {
				return withEngine(cmd.Context(), func(ctx context.Context, engine *syncer.Engine) error {
					if _, err := engine.ResumeFrom(ctx); err != nil {
						return err
					}
					report, err := engine.Poll(ctx)
					if err != nil {
						return err
					}
					return printJSON(report)
				})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withEngine(ctx, func(ctx context.Context, _ *syncer.Engine) error {
				<-ctx.Done()
				return nil
			}, components.RunnerModule)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single poll cycle and exit")

	return cmd
}
