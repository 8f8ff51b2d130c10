package main

import (
	"context"

	"stayledger/internal/usecase/shared"
	"stayledger/internal/usecase/syncer"

	"github.com/spf13/cobra"
)

func newReconcileCommand() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-read ledger state and repair the projection",
		Long: `Re-read every booking and property in scope from the ledger and upsert it
into the projection when the ledger snapshot is newer.

Scopes: all, property:<id>, guest:<address>, host:<address>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := shared.ParseScope(scope)
			if err != nil {
				return err
			}
			return withEngine(cmd.Context(), func(ctx context.Context, engine *syncer.Engine) error {
				report, err := engine.Reconcile(ctx, s)
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "all", "reconcile scope")

	return cmd
}
