package commands

//go:generate mockgen -destination=../../../tests/mock/commands/sync.go -package=commandsmock stayledger/internal/usecase/commands SyncCommands

import (
	"context"

	"stayledger/internal/usecase/shared"
	"stayledger/internal/usecase/syncer"
)

// SyncCommands is the operator surface of the sync engine.
type SyncCommands interface {
	Poll(ctx context.Context) (*syncer.ProcessingReport, error)
	Reconcile(ctx context.Context, scope shared.Scope) (*syncer.ReconciliationReport, error)
}

var _ SyncCommands = (*syncer.Engine)(nil)
