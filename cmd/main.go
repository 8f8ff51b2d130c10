package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func init() {
	// Fail safe: never expose debug output because of a missing setting.
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           stayledger
// @version         1.0
// @description     Rental bookings escrowed on a ledger, with a synchronized read projection.

// @BasePath  /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stayledger",
		Short: "Rental booking ledger and projection sync",
		Long: `stayledger runs the booking lifecycle against the ledger database and keeps
a SQLite projection of it in sync.

Configuration is read from the environment (see DB_*, PROJECTION_PATH, SYNC_*).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSyncCommand())
	cmd.AddCommand(newReconcileCommand())
	cmd.AddCommand(newMigrateCommand())

	return cmd
}
