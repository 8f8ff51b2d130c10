package projection

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"stayledger/internal/infra"
	"stayledger/internal/usecase/readmodel"
)

const propertyColumns = `ledger_id, host, active, price_per_night, metadata_uri, synced_height, synced_index, projected_at`

const upsertPropertySQL = `INSERT INTO projection_properties (` + propertyColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(ledger_id) DO UPDATE SET
    host = excluded.host,
    active = excluded.active,
    price_per_night = excluded.price_per_night,
    metadata_uri = excluded.metadata_uri,
    synced_height = excluded.synced_height,
    synced_index = excluded.synced_index,
    projected_at = excluded.projected_at
WHERE excluded.synced_height > projection_properties.synced_height
   OR (excluded.synced_height = projection_properties.synced_height
       AND excluded.synced_index > projection_properties.synced_index)`

func (s *Store) UpsertProperty(ctx context.Context, rec readmodel.PropertyRM) (bool, error) {
	res, err := s.db.ExecContext(ctx, upsertPropertySQL,
		rec.LedgerID,
		strings.ToLower(rec.Host),
		boolToInt(rec.Active),
		rec.PricePerNight,
		rec.MetadataURI,
		rec.SyncedHeight,
		rec.SyncedIndex,
		s.now(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to upsert projected property", err, infra.KindUnavailable)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, infra.WrapRepoErr("failed to read upsert result", err, infra.KindUnavailable)
	}
	return n > 0, nil
}

func (s *Store) FindPropertyByLedgerID(ctx context.Context, id string) (*readmodel.PropertyRM, error) {
	var (
		rec         readmodel.PropertyRM
		active      int64
		projectedAt int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM projection_properties WHERE ledger_id = ?`, id).Scan(
		&rec.LedgerID, &rec.Host, &active, &rec.PricePerNight, &rec.MetadataURI,
		&rec.SyncedHeight, &rec.SyncedIndex, &projectedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infra.WrapRepoErr("projected property not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find projected property", err, infra.KindUnavailable)
	}
	rec.Active = active != 0
	rec.ProjectedAt = fromUnix(projectedAt)
	return &rec, nil
}

func (s *Store) CountProperties(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projection_properties`).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count projected properties", err, infra.KindUnavailable)
	}
	return n, nil
}
