package repository

import (
	"context"

	"stayledger/internal/domain/property"
	"stayledger/internal/infra"
	"stayledger/internal/infra/repository/converter"
	sqlc "stayledger/internal/infra/sqlc/generated"
	"stayledger/internal/pkg/pgconv"
)

type PropertyWriteQueries interface {
	CreateProperty(ctx context.Context, db sqlc.DBTX, arg sqlc.CreatePropertyParams) error
	UpdatePropertyActive(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdatePropertyActiveParams) (int64, error)
	GetProperty(ctx context.Context, db sqlc.DBTX, id string) (sqlc.Properties, error)
	GetPropertyForUpdate(ctx context.Context, db sqlc.DBTX, id string) (sqlc.Properties, error)
}

type PropertyRepository struct {
	queries PropertyWriteQueries
	db      sqlc.DBTX
}

func NewPropertyRepository(queries *sqlc.Queries, db sqlc.DBTX) *PropertyRepository {
	return &PropertyRepository{
		queries: queries,
		db:      db,
	}
}

func (r *PropertyRepository) Insert(ctx context.Context, p *property.Property) error {
	if err := r.queries.CreateProperty(ctx, r.db, converter.PropertyToCreateParams(p)); err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("property already listed", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert property", err)
	}
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *property.Property) error {
	affected, err := r.queries.UpdatePropertyActive(ctx, r.db, sqlc.UpdatePropertyActiveParams{
		ID:        p.ID(),
		Active:    p.Active(),
		UpdatedAt: pgconv.TimeToPgtype(p.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update property", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*property.Property, error) {
	row, err := r.queries.GetProperty(ctx, r.db, id)
	return fromPropertyRow(row, err)
}

func (r *PropertyRepository) FindForUpdate(ctx context.Context, id string) (*property.Property, error) {
	row, err := r.queries.GetPropertyForUpdate(ctx, r.db, id)
	return fromPropertyRow(row, err)
}

func fromPropertyRow(row sqlc.Properties, err error) (*property.Property, error) {
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("property not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find property", err)
	}
	p, err := converter.PropertyFromModel(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert property row", err)
	}
	return p, nil
}
