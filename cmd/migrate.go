package main

import (
	"fmt"

	"stayledger/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var (
		dir      string
		atlas    string
		dryRun   bool
		baseline string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply ledger schema migrations with atlas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			client, err := atlasexec.NewClient(".", atlas)
			if err != nil {
				return fmt.Errorf("atlas client: %w", err)
			}
			res, err := client.MigrateApply(cmd.Context(), &atlasexec.MigrateApplyParams{
				URL:             cfg.DB.BuildDSN(),
				DirURL:          dir,
				DryRun:          dryRun,
				BaselineVersion: baseline,
			})
			if err != nil {
				return fmt.Errorf("migrate apply: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, f := range res.Applied {
				fmt.Fprintf(out, "applied %s\n", f.Name)
			}
			fmt.Fprintf(out, "ledger schema at version %q (target %q)\n", res.Current, res.Target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "file://migrations", "migration directory URL")
	cmd.Flags().StringVar(&atlas, "atlas", "atlas", "path to the atlas binary")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print pending statements without executing them")
	cmd.Flags().StringVar(&baseline, "baseline", "", "treat this version as already applied")

	return cmd
}
