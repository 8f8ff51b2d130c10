package projection

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stayledger/internal/infra"
	"stayledger/internal/usecase/readmodel"
)

// Cursor returns the last fully processed height stored under name.
func (s *Store) Cursor(ctx context.Context, name string) (int64, bool, error) {
	var height int64
	err := s.db.QueryRowContext(ctx, `SELECT height FROM sync_cursor WHERE name = ?`, name).Scan(&height)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, infra.WrapRepoErr("failed to read sync cursor", err, infra.KindUnavailable)
	}
	return height, true, nil
}

func (s *Store) SetCursor(ctx context.Context, name string, height int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_cursor (name, height, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET height = excluded.height, updated_at = excluded.updated_at
	`, name, height, s.now())
	if err != nil {
		return infra.WrapRepoErr("failed to write sync cursor", err, infra.KindUnavailable)
	}
	return nil
}

func (s *Store) IsProcessed(ctx context.Context, identity string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM processed_events WHERE identity = ?`, identity).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, infra.WrapRepoErr("failed to check processed event", err, infra.KindUnavailable)
	}
	return true, nil
}

// MarkProcessed records an identity in the committed set. Recording the same
// identity twice keeps the first entry.
func (s *Store) MarkProcessed(ctx context.Context, rec readmodel.ProcessedEventRM) error {
	appliedAt := rec.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = s.clock.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_events (identity, tx_id, event_name, height, tx_index, applied_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity) DO NOTHING
	`, rec.Identity, rec.TxID, rec.EventName, rec.Height, rec.TxIndex, appliedAt.Unix())
	if err != nil {
		return infra.WrapRepoErr("failed to mark event processed", err, infra.KindUnavailable)
	}
	return nil
}

func (s *Store) CountProcessed(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM processed_events`).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count processed events", err, infra.KindUnavailable)
	}
	return n, nil
}

// PruneProcessed deletes at most limit entries, oldest first, that were
// applied before appliedBefore and sit at or below maxHeight.
func (s *Store) PruneProcessed(ctx context.Context, appliedBefore time.Time, maxHeight int64, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM processed_events WHERE identity IN (
			SELECT identity FROM processed_events
			WHERE applied_at < ? AND height <= ?
			ORDER BY applied_at, height, tx_index
			LIMIT ?
		)
	`, appliedBefore.Unix(), maxHeight, limit)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to prune processed events", err, infra.KindUnavailable)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to read prune result", err, infra.KindUnavailable)
	}
	return int(n), nil
}
