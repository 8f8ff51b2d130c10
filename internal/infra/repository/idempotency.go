package repository

import (
	"context"
	"time"

	"stayledger/internal/infra"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/internal/pkg/pgconv"
	"stayledger/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyWriteQueries interface {
	TryInsertIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.TryInsertIdempotencyKeyParams) (int64, error)
	GetIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.GetIdempotencyKeyParams) (sqlc.IdempotencyKeys, error)
	UpdateIdempotencyKeyCompleted(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateIdempotencyKeyCompletedParams) (int64, error)
	DeleteProcessingIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.DeleteProcessingIdempotencyKeyParams) error
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      sqlc.DBTX
}

func NewIdempotencyRepository(queries *sqlc.Queries, db sqlc.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

// TryInsert claims key for caller and reports false when a live claim
// already exists.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, caller, endpoint, requestHash string, now, expiresAt time.Time) (bool, error) {
	affected, err := r.queries.TryInsertIdempotencyKey(ctx, r.db, sqlc.TryInsertIdempotencyKeyParams{
		Key:         key,
		Caller:      caller,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
		Now:         pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return affected == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID, caller string) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyKey(ctx, r.db, sqlc.GetIdempotencyKeyParams{Key: key, Caller: caller})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	return &shared.IdempotencyRecord{
		Key:             row.Key,
		Caller:          row.Caller,
		Status:          row.Status,
		RequestHash:     row.RequestHash,
		ResultBookingID: row.ResultBookingID.Int64,
		ResultHeight:    row.ResultHeight.Int64,
		ExpiresAt:       pgconv.TimeFromPgtype(row.ExpiresAt),
	}, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key uuid.UUID, caller string, bookingID, height int64) error {
	affected, err := r.queries.UpdateIdempotencyKeyCompleted(ctx, r.db, sqlc.UpdateIdempotencyKeyCompletedParams{
		Key:             key,
		Caller:          caller,
		ResultBookingID: pgconv.NullableInt8(bookingID, true),
		ResultHeight:    pgconv.NullableInt8(height, true),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("idempotency key is no longer processing", nil)
	}
	return nil
}

// Release drops an unfinished claim so the client can retry a failed request.
func (r *IdempotencyRepository) Release(ctx context.Context, key uuid.UUID, caller string) error {
	err := r.queries.DeleteProcessingIdempotencyKey(ctx, r.db, sqlc.DeleteProcessingIdempotencyKeyParams{Key: key, Caller: caller})
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}
