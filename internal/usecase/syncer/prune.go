package syncer

import (
	"context"

	"stayledger/internal/pkg/errs"
)

// Prune evicts the oldest committed identities once the set grows past
// ProcessedMaxEntries. Entries younger than ProcessedRetention, or above
// cursor - SafetyWindowBlocks, are never evicted. The whole pass is bounded
// by CallTimeout.
func (e *Engine) Prune(ctx context.Context) (*PruneReport, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	report := &PruneReport{}
	count, err := e.state.CountProcessed(ctx)
	if err != nil {
		return report, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	report.Before = count

	cursor, started := e.Cursor()
	if !started || e.cfg.ProcessedMaxEntries <= 0 || count <= e.cfg.ProcessedMaxEntries {
		return report, nil
	}

	maxHeight := cursor - e.cfg.SafetyWindowBlocks
	appliedBefore := e.clock.Now().Add(-e.cfg.ProcessedRetention)
	removed, err := e.state.PruneProcessed(ctx, appliedBefore, maxHeight, count-e.cfg.ProcessedMaxEntries)
	if err != nil {
		return report, errs.Mark(err, errs.ErrProjectionUnavailable)
	}
	report.Removed = removed

	e.logger.Info("pruned committed events", "before", count, "removed", removed, "max_height", maxHeight)
	return report, nil
}
